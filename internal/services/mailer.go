package services

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers out-of-band secrets to users. Actual email transport
// is an external collaborator; the server only depends on this
// interface.
type Mailer interface {
	SendVerificationOTP(ctx context.Context, email, code string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer logs instead of sending. It is the default outside
// production, where the debug OTP endpoint covers retrieval.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) SendVerificationOTP(ctx context.Context, email, code string) error {
	m.Log.Info("verification OTP generated", zap.String("email", email), zap.Int("code_len", len(code)))
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.Log.Info("password reset token generated", zap.String("email", email), zap.Int("token_len", len(token)))
	return nil
}
