package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vgb-web/apiserver/types"
)

// ErrInvalidDonation is returned for a non-positive amount or missing
// currency.
var ErrInvalidDonation = errors.New("invalid donation")

// DonationRepository defines persistence for donation records.
type DonationRepository interface {
	Create(ctx context.Context, donation types.Donation) (types.Donation, error)
}

// DonationService records donations and assigns receipt ids. Payment
// capture is handled by an external provider.
type DonationService struct {
	repo DonationRepository
}

func NewDonationService(repo DonationRepository) *DonationService {
	return &DonationService{repo: repo}
}

func (s *DonationService) Record(ctx context.Context, donation types.Donation) (types.Donation, error) {
	if donation.Amount <= 0 || donation.Currency == "" {
		return types.Donation{}, ErrInvalidDonation
	}
	donation.ReceiptID = uuid.NewString()
	return s.repo.Create(ctx, donation)
}
