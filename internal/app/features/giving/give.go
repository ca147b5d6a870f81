// internal/app/features/giving/give.go
package giving

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	donationstore "github.com/chosenvessel/vesselhub/internal/app/store/donations"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/payments"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Suggested amounts on the giving form.
var presetAmounts = []int{25, 50, 100, 250, 500}

type giveData struct {
	formutil.Base
	Action    string // capture endpoint for this page
	Dashboard bool
	Types     []string
	Type      string
	Amounts   []int
	Amount    string
	ClientID  string

	Receipt      *models.Donation
	PaymentError string
	// RecordError is set when the charge went through but the record did not.
	RecordError string
}

type captureInput struct {
	OrderID string  `validate:"notblank,max=100" label:"Order"`
	Amount  float64 `validate:"gte=1,lte=100000" label:"Amount"`
	Type    string  `validate:"required" label:"Giving type"`
}

func (h *Handler) newGiveData(r *http.Request, action, back string) giveData {
	data := giveData{
		Action:   action,
		Types:    models.DonationTypes,
		Type:     models.NormalizeDonationType(r.URL.Query().Get("type")),
		Amounts:  presetAmounts,
		Amount:   r.URL.Query().Get("amount"),
		ClientID: h.ClientID,
	}
	data.Dashboard = back == "/dashboard"
	formutil.SetBase(&data.Base, r, "Give", back)
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /give                                                                    |
| GET /dashboard/giving                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePublicGive(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "give", h.newGiveData(r, "/give/capture", "/"))
}

func (h *Handler) ServeGive(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "give", h.newGiveData(r, "/dashboard/giving/capture", "/dashboard"))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /give/capture                                                           |
| POST /dashboard/giving/capture                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePublicCapture(w http.ResponseWriter, r *http.Request) {
	h.capture(w, r, h.newGiveData(r, "/give/capture", "/"))
}

func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	h.capture(w, r, h.newGiveData(r, "/dashboard/giving/capture", "/dashboard"))
}

// capture verifies the order with the provider and then records the
// donation. Anonymous givers are recorded under models.AnonymousUser.
func (h *Handler) capture(w http.ResponseWriter, r *http.Request, data giveData) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()

	amount, _ := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("amount")), 64)
	in := captureInput{
		OrderID: strings.TrimSpace(r.PostFormValue("order_id")),
		Amount:  amount,
		Type:    models.NormalizeDonationType(r.PostFormValue("type")),
	}
	data.Type = in.Type
	data.Amount = r.PostFormValue("amount")

	if res := inputval.Validate(in); res.HasErrors() {
		data.PaymentError = res.First()
		templates.Render(w, r, "give", data)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Medium())
	defer cancel()

	out := h.settle(ctx, r, uid, in, payments.Claim{
		OrderID:       in.OrderID,
		TransactionID: strings.TrimSpace(r.PostFormValue("transaction_id")),
		Amount:        in.Amount,
		Currency:      "USD",
		PayerEmail:    strings.TrimSpace(r.PostFormValue("payer_email")),
		PayerName:     strings.TrimSpace(r.PostFormValue("payer_name")),
	})
	data.Receipt = out.Receipt
	data.PaymentError = out.PaymentError
	data.RecordError = out.RecordError
	templates.Render(w, r, "give", data)
}

// outcome is what the giver is told after a capture attempt. Exactly one
// field is set.
type outcome struct {
	Receipt      *models.Donation
	PaymentError string
	RecordError  string
}

// settle confirms the claim with the provider and writes the donation.
// A failed write after a confirmed charge is reported as RecordError,
// never as a payment failure.
func (h *Handler) settle(ctx context.Context, r *http.Request, uid string, in captureInput, claim payments.Claim) outcome {
	captured, err := h.Payments.Capture(ctx, claim)
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues("donation", "rejected").Inc()
		h.Log.Warn("donation capture rejected", zap.String("order_id", in.OrderID), zap.Error(err))
		h.Audit.CaptureRejected(ctx, r, uid, in.OrderID, err.Error())
		return outcome{PaymentError: "We could not confirm your payment. Please try again."}
	}

	d, err := h.Donations.Record(ctx, models.Donation{
		UserID:        uid,
		Amount:        captured.Amount,
		Currency:      captured.Currency,
		Type:          in.Type,
		TransactionID: captured.TransactionID,
		OrderID:       captured.OrderID,
		Status:        captured.Status,
		Payer:         models.Payer{Email: captured.PayerEmail, Name: captured.PayerName},
	})
	metrics.Mutation("donation_record", err)
	amount := strconv.FormatFloat(captured.Amount, 'f', 2, 64)
	switch {
	case errors.Is(err, donationstore.ErrDuplicate):
		// A replayed capture; the first request already recorded it.
		metrics.PaymentCaptures.WithLabelValues("donation", "duplicate").Inc()
		return outcome{Receipt: &models.Donation{
			Amount:        captured.Amount,
			Currency:      captured.Currency,
			Type:          in.Type,
			TransactionID: captured.TransactionID,
		}}
	case err != nil:
		metrics.PaymentCaptures.WithLabelValues("donation", "record_failed").Inc()
		h.Log.Error("donation captured but not recorded",
			zap.String("transaction_id", captured.TransactionID), zap.String("amount", amount), zap.Error(err))
		h.Audit.DonationRecordFailed(ctx, r, uid, captured.TransactionID, amount, err.Error())
		return outcome{RecordError: payments.CapturedButNotSaved(captured.TransactionID)}
	}
	metrics.PaymentCaptures.WithLabelValues("donation", "recorded").Inc()
	h.Audit.DonationRecorded(ctx, r, d.UserID, d.TransactionID, amount, d.Type)
	return outcome{Receipt: &d}
}
