package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation records a donation submitted through the public donation
// endpoint. Payment capture happens with an external provider; this
// record only acknowledges receipt.
type Donation struct {
	ID primitive.ObjectID `json:"-" bson:"_id,omitempty"`

	// ReceiptID is the opaque reference returned to the donor.
	ReceiptID string `json:"receiptId" bson:"receipt_id"`

	// Amount is the donation amount in the smallest currency unit.
	Amount int64 `json:"amount" bson:"amount"`

	// Currency is an ISO 4217 code, e.g. "USD".
	Currency string `json:"currency" bson:"currency"`

	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
