//go:build prod

package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/vgb-web/apiserver/config"
)

// Prod builds register no debug routes.
func registerDebugRoutes(r chi.Router, handler *UserHandler, mode config.Mode) {}
