package services

import (
	"context"
	"errors"
	"time"

	"github.com/vgb-web/apiserver/internal/otp"
	"github.com/vgb-web/apiserver/internal/store"
	"github.com/vgb-web/apiserver/internal/token"
	"github.com/vgb-web/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is compared against when a login names an unknown
// email, so both login outcomes cost one bcrypt verification.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByResetToken(ctx context.Context, resetToken string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	SetVerificationOTP(ctx context.Context, id, code string, expires time.Time) error
	MarkEmailVerified(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, resetToken string, expires time.Time) error
	ReplacePassword(ctx context.Context, id, passwordHash string) error
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, upd types.ProfileUpdate) (types.User, error)
	UpdateMembership(ctx context.Context, id, status, membershipType string) (types.User, error)
}

// UserService orchestrates the registration, verification, login and
// password-reset flows.
type UserService struct {
	repo    UserRepository
	tokens  *token.Issuer
	secrets *otp.Generator
	mailer  Mailer
	now     func() time.Time
}

func NewUserService(repo UserRepository, tokens *token.Issuer, secrets *otp.Generator, mailer Mailer) *UserService {
	return &UserService{
		repo:    repo,
		tokens:  tokens,
		secrets: secrets,
		mailer:  mailer,
		now:     time.Now,
	}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Company    string
	Profession string
}

// Register creates an unverified account with a fresh OTP and hands the
// code to the mailer for out-of-band delivery. The plaintext password is
// hashed immediately and never stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	code, expires, err := s.secrets.GenerateOTP()
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:                        in.Name,
		Email:                       in.Email,
		Company:                     in.Company,
		Profession:                  in.Profession,
		PasswordHash:                string(hashed),
		EmailVerified:               false,
		EmailVerificationOTP:        code,
		EmailVerificationOTPExpires: &expires,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, err
	}

	// Delivery failure does not undo registration; the user can request
	// a resend.
	_ = s.mailer.SendVerificationOTP(ctx, user.Email, code)

	return user, nil
}

// VerifyEmail consumes the stored OTP. The code is single use: a
// successful verification clears it, so a repeat call fails.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !otp.Verify(user.EmailVerificationOTP, code, user.EmailVerificationOTPExpires, s.now()) {
		return ErrInvalidOTP
	}
	return s.repo.MarkEmailVerified(ctx, user.ID.Hex())
}

// ResendOTP regenerates the verification code, overwriting any prior
// one. Resending to an already verified account is a no-op success.
func (s *UserService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}

	code, expires, err := s.secrets.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.repo.SetVerificationOTP(ctx, user.ID.Hex(), code, expires); err != nil {
		return err
	}
	_ = s.mailer.SendVerificationOTP(ctx, user.Email, code)
	return nil
}

// Login checks credentials and mints a session token embedding the
// account id and membership attributes. Unknown email and wrong password
// produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (string, types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same bcrypt work as the known-email path so
			// response timing does not reveal whether the account exists.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return "", types.User{}, ErrInvalidCredentials
		}
		return "", types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", types.User{}, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return "", types.User{}, ErrAccountNotVerified
	}

	signed, err := s.tokens.Issue(user.ID.Hex(), user.MembershipStatus, user.MembershipType)
	if err != nil {
		return "", types.User{}, err
	}

	// Last-login bookkeeping is best effort.
	_ = s.repo.SetLastLogin(ctx, user.ID.Hex(), s.now())

	return signed, user, nil
}

// ForgotPassword stores a reset token for the account and hands it to
// the mailer. It succeeds whether or not the email exists so responses
// cannot be used to enumerate accounts.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	resetToken, expires, err := s.secrets.GenerateResetToken()
	if err != nil {
		return err
	}
	if err := s.repo.SetResetToken(ctx, user.ID.Hex(), resetToken, expires); err != nil {
		return err
	}
	_ = s.mailer.SendPasswordReset(ctx, user.Email, resetToken)
	return nil
}

// VerifyResetToken reports whether a reset token is outstanding and
// unexpired. It does not mutate any state.
func (s *UserService) VerifyResetToken(ctx context.Context, resetToken string) (bool, error) {
	user, err := s.repo.GetByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return otp.Verify(user.PasswordResetToken, resetToken, user.PasswordResetExpires, s.now()), nil
}

// ResetPassword replaces the password hash and clears the consumed
// reset token.
func (s *UserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	user, err := s.repo.GetByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !otp.Verify(user.PasswordResetToken, resetToken, user.PasswordResetExpires, s.now()) {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.ReplacePassword(ctx, user.ID.Hex(), string(hashed))
}

// GetByID loads an account by id.
func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// UpdateProfile mutates display fields only. Credential, verification
// and membership state are not reachable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, id string, upd types.ProfileUpdate) (types.User, error) {
	user, err := s.repo.UpdateProfile(ctx, id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// UpdateMembership sets the membership attributes. The caller is
// trusted; payment verification happens elsewhere.
func (s *UserService) UpdateMembership(ctx context.Context, id, status, membershipType string) (types.User, error) {
	user, err := s.repo.UpdateMembership(ctx, id, status, membershipType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// DebugOTP exposes the stored OTP for an email. Only the build-tagged
// debug endpoint calls this; the route does not exist in prod builds.
func (s *UserService) DebugOTP(ctx context.Context, email string) (string, *time.Time, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}
	return user.EmailVerificationOTP, user.EmailVerificationOTPExpires, nil
}
