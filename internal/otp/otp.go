// Package otp generates the single-use secrets behind email verification
// and password reset: a short-lived numeric code and a longer-lived
// opaque token. Both come from crypto/rand.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"
	"time"
)

const (
	// OTPDigits is the length of email verification codes.
	OTPDigits = 6

	resetTokenBytes = 32
)

// Generator produces OTPs and reset tokens with configured validity
// windows. The zero value is not usable; construct with New.
type Generator struct {
	otpTTL   time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

func New(otpTTL, resetTTL time.Duration) *Generator {
	return &Generator{otpTTL: otpTTL, resetTTL: resetTTL, now: time.Now}
}

// GenerateOTP returns a fixed-length numeric code and its expiry.
func (g *Generator) GenerateOTP() (string, time.Time, error) {
	var b strings.Builder
	b.Grow(OTPDigits)

	max := big.NewInt(10)
	for i := 0; i < OTPDigits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", time.Time{}, err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), g.now().Add(g.otpTTL), nil
}

// GenerateResetToken returns a high-entropy opaque token and its expiry.
func (g *Generator) GenerateResetToken() (string, time.Time, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(raw), g.now().Add(g.resetTTL), nil
}

// Verify reports whether a presented secret matches the stored one and
// the stored expiry has not passed. A nil expiry means no secret is
// outstanding.
func Verify(stored, presented string, expiresAt *time.Time, now time.Time) bool {
	if stored == "" || presented == "" || expiresAt == nil {
		return false
	}
	if now.After(*expiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
