// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation types offered on the giving forms.
const (
	GiveTithe     = "Tithe"
	GiveOffering  = "Offering"
	GiveBuilding  = "Building Fund"
	GiveMissions  = "Missions"
	AnonymousUser = "anonymous"
)

// DonationTypes in display order.
var DonationTypes = []string{GiveTithe, GiveOffering, GiveBuilding, GiveMissions}

// Payer is the payer summary returned by the payment provider.
type Payer struct {
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
}

// Donation is written only after the provider confirmed the capture.
type Donation struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Type          string             `bson:"type" json:"type"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	OrderID       string             `bson:"order_id,omitempty" json:"-"`
	Status        string             `bson:"status" json:"status"`
	Payer         Payer              `bson:"payer" json:"payer"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// NormalizeDonationType maps a query-string type to a known donation type.
// "donation" and unknown values fall back to Offering.
func NormalizeDonationType(t string) string {
	for _, known := range DonationTypes {
		if known == t {
			return t
		}
	}
	return GiveOffering
}
