package store

import (
	"context"
	"sync"
	"time"

	"github.com/vgb-web/apiserver/types"
	"go.mongodb.org/mongo-driver/mongo"
)

// DonationRepository persists donation records in MongoDB.
type DonationRepository struct {
	c *mongo.Collection
}

func NewDonationRepository(database *mongo.Database) *DonationRepository {
	return &DonationRepository{c: database.Collection("donations")}
}

func (r *DonationRepository) Create(ctx context.Context, donation types.Donation) (types.Donation, error) {
	donation.CreatedAt = time.Now()
	if _, err := r.c.InsertOne(ctx, donation); err != nil {
		return types.Donation{}, err
	}
	return donation, nil
}

// MemoryDonationRepository is the in-memory counterpart used outside
// production when no database is configured.
type MemoryDonationRepository struct {
	mu        sync.Mutex
	donations []types.Donation
}

func NewMemoryDonationRepository() *MemoryDonationRepository {
	return &MemoryDonationRepository{}
}

func (r *MemoryDonationRepository) Create(ctx context.Context, donation types.Donation) (types.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	donation.CreatedAt = time.Now()
	r.donations = append(r.donations, donation)
	return donation, nil
}
