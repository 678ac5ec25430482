package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vgb-web/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is a mutex-guarded in-memory implementation of the
// user repository. It backs local development when no MONGO_URI is
// configured, and unit tests.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]types.User // keyed by hex id
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]types.User)}
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *MemoryUserRepository) GetByResetToken(ctx context.Context, token string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.PasswordResetToken != "" && user.PasswordResetToken == token {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *MemoryUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = NormalizeEmail(user.Email)
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, ErrDuplicateEmail
		}
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID.Hex()] = user
	return user, nil
}

func (r *MemoryUserRepository) SetVerificationOTP(ctx context.Context, id, otp string, expires time.Time) error {
	_, err := r.update(id, func(user *types.User) {
		user.EmailVerificationOTP = otp
		user.EmailVerificationOTPExpires = &expires
	})
	return err
}

func (r *MemoryUserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	_, err := r.update(id, func(user *types.User) {
		user.EmailVerified = true
		user.EmailVerificationOTP = ""
		user.EmailVerificationOTPExpires = nil
	})
	return err
}

func (r *MemoryUserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	_, err := r.update(id, func(user *types.User) {
		user.PasswordResetToken = token
		user.PasswordResetExpires = &expires
	})
	return err
}

func (r *MemoryUserRepository) ReplacePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.update(id, func(user *types.User) {
		user.PasswordHash = passwordHash
		user.PasswordResetToken = ""
		user.PasswordResetExpires = nil
	})
	return err
}

func (r *MemoryUserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.update(id, func(user *types.User) {
		user.LastLoginAt = &at
	})
	return err
}

func (r *MemoryUserRepository) UpdateProfile(ctx context.Context, id string, upd types.ProfileUpdate) (types.User, error) {
	return r.update(id, func(user *types.User) {
		if upd.Name != nil {
			user.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Company != nil {
			user.Company = strings.TrimSpace(*upd.Company)
		}
		if upd.Profession != nil {
			user.Profession = strings.TrimSpace(*upd.Profession)
		}
	})
}

func (r *MemoryUserRepository) UpdateMembership(ctx context.Context, id, status, membershipType string) (types.User, error) {
	return r.update(id, func(user *types.User) {
		user.MembershipStatus = status
		user.MembershipType = membershipType
	})
}

// update applies mutate and returns the record as stored, including the
// fresh UpdatedAt stamp, mirroring the Mongo repository's
// return-after-update reads.
func (r *MemoryUserRepository) update(id string, mutate func(*types.User)) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	mutate(&user)
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return user, nil
}
