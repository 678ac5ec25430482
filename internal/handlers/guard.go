package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vgb-web/apiserver/internal/services"
	"github.com/vgb-web/apiserver/internal/token"
)

// RequireAuth validates the bearer session token and resolves it to an
// account, which downstream handlers read with CurrentUser. Every
// failure mode answers 401 with the same message; callers cannot tell a
// missing header from a bad signature, an expired token, or a deleted
// account.
func RequireAuth(issuer *token.Issuer, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := issuer.Validate(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			user, err := users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to load account")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", errors.New("invalid authorization")
	}
	return tokenString, nil
}
