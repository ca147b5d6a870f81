// internal/app/features/giving/handler.go
package giving

import (
	donationstore "github.com/chosenvessel/vesselhub/internal/app/store/donations"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/payments"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public and member giving pages and records donations
// once the payment provider has confirmed the capture.
type Handler struct {
	Donations *donationstore.Store
	Payments  payments.Verifier
	Audit     *auditlog.Logger
	// ClientID is the PayPal client id for the checkout widget. Empty means
	// the development form is shown instead of the widget.
	ClientID string
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, verifier payments.Verifier, audit *auditlog.Logger, clientID string, logger *zap.Logger) *Handler {
	return &Handler{
		Donations: donationstore.New(db),
		Payments:  verifier,
		Audit:     audit,
		ClientID:  clientID,
		Log:       logger,
	}
}
