// Package token issues and validates the signed session credential
// carried in Authorization headers. Tokens are stateless HS256 JWTs with
// a fixed validity window; there is no server-side session state and no
// revocation.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vgb-web/apiserver/config"
)

// ErrInvalidToken is returned for any token that fails validation. The
// reason (bad signature, malformed, expired) is deliberately not
// distinguished to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the session payload: the account id as subject plus the
// membership attributes present at issue time.
type Claims struct {
	MembershipStatus string `json:"membershipStatus,omitempty"`
	MembershipType   string `json:"membershipType,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints and validates session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	mode   config.Mode
}

// NewIssuer resolves the signing secret from configuration. In
// production a missing secret is a construction error; outside
// production it falls back to the fixed development secret so the local
// flow keeps working.
func NewIssuer(cfg config.Config) (*Issuer, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("token issuer: JWT_SECRET is not set")
		}
		secret = config.DevJWTSecret
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    cfg.SessionTTL,
		mode:   cfg.Mode,
	}, nil
}

// Issue signs a session token for the account. Membership attributes are
// only embedded when non-empty. If signing fails outside production a
// clearly marked non-cryptographic placeholder is returned instead so
// local development is not blocked; in production the error propagates.
func (i *Issuer) Issue(accountID, membershipStatus, membershipType string) (string, error) {
	now := time.Now()
	claims := Claims{
		MembershipStatus: membershipStatus,
		MembershipType:   membershipType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		if i.mode == config.Production {
			return "", fmt.Errorf("sign session token: %w", err)
		}
		return fmt.Sprintf("dev-token-%s-%d", accountID, now.UnixMilli()), nil
	}
	return signed, nil
}

// Validate parses and verifies a session token and returns its claims.
// Placeholder dev tokens are not valid JWTs and fail here like any other
// malformed token.
func (i *Issuer) Validate(tokenString string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
