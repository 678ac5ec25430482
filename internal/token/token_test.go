package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vgb-web/apiserver/config"
)

func devConfig(ttl time.Duration) config.Config {
	return config.Config{
		Mode:       config.Development,
		JWTSecret:  "test-secret",
		SessionTTL: ttl,
	}
}

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer(devConfig(time.Hour))
	require.NoError(t, err)

	signed, err := issuer.Issue("64f000000000000000000001", "active", "gold")
	require.NoError(t, err)

	claims, err := issuer.Validate(signed)
	require.NoError(t, err)
	require.Equal(t, "64f000000000000000000001", claims.Subject)
	require.Equal(t, "active", claims.MembershipStatus)
	require.Equal(t, "gold", claims.MembershipType)
}

func TestIssueOmitsEmptyMembership(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer(devConfig(time.Hour))
	require.NoError(t, err)

	signed, err := issuer.Issue("64f000000000000000000001", "", "")
	require.NoError(t, err)

	claims, err := issuer.Validate(signed)
	require.NoError(t, err)
	require.Empty(t, claims.MembershipStatus)
	require.Empty(t, claims.MembershipType)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer(devConfig(time.Hour))
	require.NoError(t, err)

	signed, err := issuer.Issue("64f000000000000000000001", "", "")
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = issuer.Validate(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer(devConfig(-time.Minute))
	require.NoError(t, err)

	signed, err := issuer.Issue("64f000000000000000000001", "", "")
	require.NoError(t, err)

	_, err = issuer.Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer(devConfig(time.Hour))
	require.NoError(t, err)

	other, err := NewIssuer(config.Config{Mode: config.Development, JWTSecret: "other-secret", SessionTTL: time.Hour})
	require.NoError(t, err)

	signed, err := other.Issue("64f000000000000000000001", "", "")
	require.NoError(t, err)

	_, err = issuer.Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer(devConfig(time.Hour))
	require.NoError(t, err)

	for _, tokenString := range []string{"", "not-a-jwt", "dev-token-64f000000000000000000001-1700000000000"} {
		_, err := issuer.Validate(tokenString)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}

func TestNewIssuerSecretResolution(t *testing.T) {
	t.Parallel()

	t.Run("production requires a secret", func(t *testing.T) {
		_, err := NewIssuer(config.Config{Mode: config.Production, SessionTTL: time.Hour})
		require.Error(t, err)
	})

	t.Run("development falls back to the dev secret", func(t *testing.T) {
		issuer, err := NewIssuer(config.Config{Mode: config.Development, SessionTTL: time.Hour})
		require.NoError(t, err)

		signed, err := issuer.Issue("64f000000000000000000001", "", "")
		require.NoError(t, err)

		claims, err := issuer.Validate(signed)
		require.NoError(t, err)
		require.Equal(t, "64f000000000000000000001", claims.Subject)
	})
}
