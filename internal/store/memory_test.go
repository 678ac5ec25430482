package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vgb-web/apiserver/types"
)

func seedUser(t *testing.T, repo *MemoryUserRepository) types.User {
	t.Helper()

	user, err := repo.Create(context.Background(), types.User{
		Name:         "Alice",
		Email:        "Alice@Example.Test",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func TestMemoryCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	t.Parallel()

	repo := NewMemoryUserRepository()
	user := seedUser(t, repo)
	require.Equal(t, "alice@example.test", user.Email)
	require.False(t, user.ID.IsZero())

	_, err := repo.Create(context.Background(), types.User{Email: "ALICE@example.test"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := seedUser(t, repo)

	byID, err := repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.test")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByResetToken(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryVerificationPairStaysTogether(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := seedUser(t, repo)

	expires := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.SetVerificationOTP(ctx, user.ID.Hex(), "123456", expires))

	stored, err := repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "123456", stored.EmailVerificationOTP)
	require.NotNil(t, stored.EmailVerificationOTPExpires)

	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID.Hex()))

	stored, err = repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.True(t, stored.EmailVerified)
	require.Empty(t, stored.EmailVerificationOTP)
	require.Nil(t, stored.EmailVerificationOTPExpires)
}

func TestMemoryReplacePasswordClearsResetPair(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := seedUser(t, repo)

	expires := time.Now().Add(time.Hour)
	require.NoError(t, repo.SetResetToken(ctx, user.ID.Hex(), "reset-token", expires))

	byToken, err := repo.GetByResetToken(ctx, "reset-token")
	require.NoError(t, err)
	require.Equal(t, user.ID, byToken.ID)

	require.NoError(t, repo.ReplacePassword(ctx, user.ID.Hex(), "new-hash"))

	stored, err := repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "new-hash", stored.PasswordHash)
	require.Empty(t, stored.PasswordResetToken)
	require.Nil(t, stored.PasswordResetExpires)

	_, err = repo.GetByResetToken(ctx, "reset-token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateReturnsStoredRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := seedUser(t, repo)

	name := "Alice B."
	updated, err := repo.UpdateProfile(ctx, user.ID.Hex(), types.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Alice B.", updated.Name)

	stored, err := repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, stored.UpdatedAt, updated.UpdatedAt)
	require.True(t, updated.UpdatedAt.After(user.UpdatedAt))

	bumped, err := repo.UpdateMembership(ctx, user.ID.Hex(), "active", "premium")
	require.NoError(t, err)
	require.Equal(t, "active", bumped.MembershipStatus)

	stored, err = repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, stored.UpdatedAt, bumped.UpdatedAt)
}

func TestMemoryConcurrentOTPUpdates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := seedUser(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			expires := time.Now().Add(time.Duration(n) * time.Minute)
			_ = repo.SetVerificationOTP(ctx, user.ID.Hex(), "code", expires)
		}(i)
	}
	wg.Wait()

	// Last write wins, but the code and expiry are always a pair.
	stored, err := repo.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "code", stored.EmailVerificationOTP)
	require.NotNil(t, stored.EmailVerificationOTPExpires)
}
