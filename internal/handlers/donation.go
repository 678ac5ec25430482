package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vgb-web/apiserver/internal/services"
	"github.com/vgb-web/apiserver/types"
	"go.uber.org/zap"
)

// DonationHandler serves the public donation endpoint.
type DonationHandler struct {
	donations *services.DonationService
	log       *zap.Logger
}

func NewDonationHandler(donations *services.DonationService, log *zap.Logger) *DonationHandler {
	return &DonationHandler{donations: donations, log: log}
}

type DonationRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// ProcessDonation records a donation and returns its receipt id.
func (h *DonationHandler) ProcessDonation(w http.ResponseWriter, r *http.Request) {
	var req DonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	donation, err := h.donations.Record(r.Context(), types.Donation{
		Amount:   req.Amount,
		Currency: req.Currency,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidDonation) {
			writeError(w, http.StatusBadRequest, "amount and currency are required")
			return
		}
		h.log.Error("record donation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record donation")
		return
	}

	writeJSON(w, http.StatusCreated, donation)
}
