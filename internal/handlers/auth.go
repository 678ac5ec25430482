package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vgb-web/apiserver/config"
	"github.com/vgb-web/apiserver/internal/services"
	"github.com/vgb-web/apiserver/types"
	"go.uber.org/zap"
)

// UserHandler serves the registration, verification, login,
// password-reset and profile endpoints.
type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// UserRouter registers the user routes on the given router. The debug
// OTP route is added by build-tag-gated registration, does not exist in
// prod builds, and is skipped at runtime in production mode.
func UserRouter(r chi.Router, users *services.UserService, requireAuth func(http.Handler) http.Handler, mode config.Mode, log *zap.Logger) {
	handler := NewUserHandler(users, log)

	r.Post("/", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/verify-email", handler.VerifyEmail)
	r.Post("/resend-otp", handler.ResendOTP)
	r.Post("/forgot-password", handler.ForgotPassword)
	r.Get("/reset-password/{token}", handler.VerifyResetToken)
	r.Post("/reset-password/{token}", handler.ResetPassword)

	registerDebugRoutes(r, handler, mode)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profile", handler.GetProfile)
		r.Put("/profile", handler.UpdateProfile)
		r.Put("/membership", handler.UpdateMembership)
	})
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Company    string `json:"company"`
	Profession string `json:"profession"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type MembershipRequest struct {
	MembershipStatus string `json:"membershipStatus"`
	MembershipType   string `json:"membershipType"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

type ResetTokenStatusResponse struct {
	Valid bool `json:"valid"`
}

// Register creates a new account and triggers OTP delivery.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Company:    strings.TrimSpace(req.Company),
		Profession: strings.TrimSpace(req.Profession),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.log.Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a session token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	signed, user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, services.ErrAccountNotVerified):
			writeError(w, http.StatusUnauthorized, "please verify your email address")
		default:
			h.log.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to authenticate")
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: signed, User: user})
}

// VerifyEmail consumes the OTP and marks the account verified.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Email == "" || req.OTP == "" {
		writeError(w, http.StatusBadRequest, "email and otp are required")
		return
	}

	if err := h.users.VerifyEmail(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		case errors.Is(err, services.ErrInvalidOTP):
			writeError(w, http.StatusBadRequest, "invalid or expired verification code")
		default:
			h.log.Error("verify email failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to verify email")
		}
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "email verified"})
}

// ResendOTP regenerates and redelivers the verification code.
func (h *UserHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.users.ResendOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.log.Error("resend otp failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to resend code")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "verification code sent"})
}

// ForgotPassword starts the reset flow. The response is identical
// whether or not the email exists.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		h.log.Error("forgot password failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process request")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "if the account exists, a reset link has been sent"})
}

// VerifyResetToken reports whether a reset token is still usable.
func (h *UserHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "token")

	valid, err := h.users.VerifyResetToken(r.Context(), resetToken)
	if err != nil {
		h.log.Error("verify reset token failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to verify token")
		return
	}

	writeJSON(w, http.StatusOK, ResetTokenStatusResponse{Valid: valid})
}

// ResetPassword consumes the reset token and replaces the password.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "newPassword is required")
		return
	}

	if err := h.users.ResetPassword(r.Context(), resetToken, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			writeError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		h.log.Error("reset password failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "password updated"})
}

// GetProfile returns the authenticated account.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile mutates display fields of the authenticated account.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var upd types.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID.Hex(), upd)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.log.Error("update profile failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// UpdateMembership sets membership attributes on the authenticated
// account.
func (h *UserHandler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req MembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.users.UpdateMembership(r.Context(), user.ID.Hex(), req.MembershipStatus, req.MembershipType)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.log.Error("update membership failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update membership")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
