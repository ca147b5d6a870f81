// Package payments confirms checkout captures reported by the browser's
// PayPal widget before the server records a gift or upgrades a member.
package payments

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotCompleted means the order exists but was not captured.
	ErrNotCompleted = errors.New("payments: order not completed")
	// ErrInvalidClaim means the widget posted an unusable confirmation.
	ErrInvalidClaim = errors.New("payments: invalid capture claim")
)

// Claim is what the checkout widget posts after onApprove.
type Claim struct {
	OrderID       string
	TransactionID string
	Amount        float64
	Currency      string
	PayerEmail    string
	PayerName     string
}

// Capture is a confirmed charge.
type Capture struct {
	OrderID       string
	TransactionID string
	Amount        float64
	Currency      string
	PayerEmail    string
	PayerName     string
	Status        string
}

// Verifier turns a claim into a confirmed capture or an error.
type Verifier interface {
	Capture(ctx context.Context, c Claim) (*Capture, error)
}

// Disabled trusts the claim as posted. It is meant for development where
// no PayPal credentials are configured.
type Disabled struct{}

func (Disabled) Capture(_ context.Context, c Claim) (*Capture, error) {
	if strings.TrimSpace(c.OrderID) == "" || c.Amount <= 0 {
		return nil, ErrInvalidClaim
	}
	txn := c.TransactionID
	if txn == "" {
		txn = c.OrderID
	}
	cur := c.Currency
	if cur == "" {
		cur = "USD"
	}
	return &Capture{
		OrderID:       c.OrderID,
		TransactionID: txn,
		Amount:        c.Amount,
		Currency:      cur,
		PayerEmail:    c.PayerEmail,
		PayerName:     c.PayerName,
		Status:        StatusCompleted,
	}, nil
}

// StatusCompleted is PayPal's status for a captured order.
const StatusCompleted = "COMPLETED"

// CapturedButNotSaved is shown when the charge succeeded and the record
// write failed. It must never read like a failed payment.
func CapturedButNotSaved(transactionID string) string {
	return "Your payment was captured successfully, but we could not save the record. " +
		"Please contact support with transaction " + transactionID + "."
}
