package services

import "errors"

// Sentinel errors returned by the user service. Handlers map these to
// HTTP statuses; anything else is treated as an internal error.
var (
	// ErrEmailTaken is returned when registering an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound is returned when no account exists for the given
	// email or id.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountNotVerified is returned when logging in before the
	// email address has been verified.
	ErrAccountNotVerified = errors.New("email address not verified")

	// ErrInvalidOTP is returned when a verification code is missing,
	// wrong, or expired.
	ErrInvalidOTP = errors.New("invalid or expired verification code")

	// ErrInvalidResetToken is returned when a password reset token is
	// unknown or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
