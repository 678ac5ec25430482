//go:build !prod

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vgb-web/apiserver/config"
	"github.com/vgb-web/apiserver/internal/services"
)

// registerDebugRoutes adds the OTP debug endpoint. This file is excluded
// from prod builds, so the route cannot exist in a production binary no
// matter what the environment says. A default build started with
// ENV=production additionally skips registration at runtime.
func registerDebugRoutes(r chi.Router, handler *UserHandler, mode config.Mode) {
	if mode == config.Production {
		return
	}
	r.Get("/_debug/otp", handler.debugOTP)
}

type debugOTPResponse struct {
	Email     string     `json:"email"`
	OTP       string     `json:"otp"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *UserHandler) debugOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query param required")
		return
	}

	code, expires, err := h.users.DebugOTP(r.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "debug error")
		return
	}

	writeJSON(w, http.StatusOK, debugOTPResponse{Email: email, OTP: code, ExpiresAt: expires})
}
