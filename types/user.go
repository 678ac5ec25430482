package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the system.
// Credential and token fields are never exposed in API responses.
type User struct {
	// ID is the unique identifier of the account.
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// Name is the user's display or full name.
	Name string `json:"name" bson:"name"`

	// Email is the user's email address, stored lowercased and unique
	// across all accounts.
	Email string `json:"email" bson:"email"`

	// Company and Profession are free-text profile attributes.
	Company    string `json:"company,omitempty" bson:"company,omitempty"`
	Profession string `json:"profession,omitempty" bson:"profession,omitempty"`

	// PasswordHash stores the bcrypt hash of the user's password.
	PasswordHash string `json:"-" bson:"password_hash"`

	// EmailVerified reports whether the user has proven control of the
	// email address via OTP.
	EmailVerified bool `json:"emailVerified" bson:"email_verified"`

	// EmailVerificationOTP and its expiry are set together at
	// registration or resend and cleared together on successful
	// verification.
	EmailVerificationOTP        string     `json:"-" bson:"email_verification_otp,omitempty"`
	EmailVerificationOTPExpires *time.Time `json:"-" bson:"email_verification_otp_expires,omitempty"`

	// PasswordResetToken and its expiry are set together by the
	// forgot-password flow and cleared together when consumed.
	PasswordResetToken   string     `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpires *time.Time `json:"-" bson:"password_reset_expires,omitempty"`

	// MembershipStatus and MembershipType are free-form membership
	// attributes carried into issued session tokens.
	MembershipStatus string `json:"membershipStatus,omitempty" bson:"membership_status,omitempty"`
	MembershipType   string `json:"membershipType,omitempty" bson:"membership_type,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// LastLoginAt is the timestamp of the most recent successful login.
	LastLoginAt *time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
}

// ProfileUpdate holds the display fields a user may change through the
// profile endpoint. Nil pointers leave the current value untouched.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Company    *string `json:"company,omitempty"`
	Profession *string `json:"profession,omitempty"`
}
