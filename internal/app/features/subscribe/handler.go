// internal/app/features/subscribe/handler.go
package subscribe

import (
	"context"
	"errors"
	"net/http"
	"strings"

	donationstore "github.com/chosenvessel/vesselhub/internal/app/store/donations"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/payments"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MonthlyPrice is the Golden Vessel membership price in USD.
const MonthlyPrice = 20.00

// errPaymentUsed means the order was already recorded as a donation.
var errPaymentUsed = errors.New("payment already recorded as a donation")

// Handler upgrades a member to the golden vessel tier once the payment
// provider confirms the first payment.
type Handler struct {
	Profiles  *profilestore.Store
	Donations *donationstore.Store
	Payments  payments.Verifier
	Audit     *auditlog.Logger
	ClientID  string
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, verifier payments.Verifier, audit *auditlog.Logger, clientID string, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles:  profilestore.New(db),
		Donations: donationstore.New(db),
		Payments:  verifier,
		Audit:     audit,
		ClientID:  clientID,
		Log:       logger,
	}
}

type contactInput struct {
	FirstName string `validate:"notblank,max=60" label:"First name"`
	LastName  string `validate:"notblank,max=60" label:"Last name"`
	Phone     string `validate:"notblank,max=30" label:"Phone"`
	Address   string `validate:"notblank,max=200" label:"Street address"`
	City      string `validate:"notblank,max=80" label:"City"`
	State     string `validate:"notblank,max=40" label:"State"`
	Zip       string `validate:"notblank,max=12" label:"Zip"`
	Type      string `validate:"oneof=local virtual" label:"Member type"`
	OrderID   string `validate:"notblank,max=100" label:"Payment"`
}

func (in contactInput) contact() *models.ContactInfo {
	return &models.ContactInfo{
		Phone:   in.Phone,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		Zip:     in.Zip,
		Type:    in.Type,
	}
}

type pageData struct {
	formutil.Base
	Price       float64
	ClientID    string
	MemberTypes []models.Option
	Input       contactInput
	RecordError string
}

func (h *Handler) newPageData(r *http.Request) pageData {
	data := pageData{
		Price:       MonthlyPrice,
		ClientID:    h.ClientID,
		MemberTypes: models.MemberTypes,
		Input:       contactInput{Type: "local"},
	}
	formutil.SetBase(&data.Base, r, "Become a Golden Vessel", "/dashboard")
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /subscribe                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSubscribe(w http.ResponseWriter, r *http.Request) {
	if auth.CurrentSnapshot(r).Profile.IsPremium() {
		formutil.Flash(r, notify.Info, "You are already a Golden Vessel.")
		formutil.Redirect(w, r, "/dashboard")
		return
	}
	templates.Render(w, r, "subscribe", h.newPageData(r))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /subscribe/capture                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCapture confirms the first payment, then upgrades the profile in a
// single write.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()
	data := h.newPageData(r)

	in := contactInput{
		FirstName: htmlsanitize.Text(r.PostFormValue("first_name")),
		LastName:  htmlsanitize.Text(r.PostFormValue("last_name")),
		Phone:     htmlsanitize.Text(r.PostFormValue("phone")),
		Address:   htmlsanitize.Text(r.PostFormValue("address")),
		City:      htmlsanitize.Text(r.PostFormValue("city")),
		State:     htmlsanitize.Text(r.PostFormValue("state")),
		Zip:       htmlsanitize.Text(r.PostFormValue("zip")),
		Type:      strings.TrimSpace(r.PostFormValue("member_type")),
		OrderID:   strings.TrimSpace(r.PostFormValue("order_id")),
	}
	data.Input = in
	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.First())
		templates.Render(w, r, "subscribe", data)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Medium())
	defer cancel()

	msg, err := h.upgrade(ctx, r, uid, in)
	switch {
	case err == nil:
		formutil.Flash(r, notify.Success, "Welcome, Golden Vessel! Your premium features are unlocked.")
		formutil.Redirect(w, r, "/dashboard")
	case msg != "":
		data.RecordError = msg
		templates.Render(w, r, "subscribe", data)
	case errors.Is(err, errPaymentUsed), errors.Is(err, profilestore.ErrSubscriptionTaken):
		data.SetError("That payment has already been used. Please start a new payment.")
		templates.Render(w, r, "subscribe", data)
	default:
		data.SetError("We could not confirm your payment. Please try again.")
		templates.Render(w, r, "subscribe", data)
	}
}

// upgrade returns a non-empty message when the charge succeeded but the
// profile write did not. One order upgrades at most one profile and never
// one that was recorded as a donation.
func (h *Handler) upgrade(ctx context.Context, r *http.Request, uid string, in contactInput) (string, error) {
	captured, err := h.Payments.Capture(ctx, payments.Claim{
		OrderID:  in.OrderID,
		Amount:   MonthlyPrice,
		Currency: "USD",
	})
	if err == nil && captured.Amount < MonthlyPrice {
		err = payments.ErrInvalidClaim
	}
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues("subscription", "rejected").Inc()
		h.Log.Warn("subscription capture rejected", zap.String("order_id", in.OrderID), zap.Error(err))
		h.Audit.CaptureRejected(ctx, r, uid, in.OrderID, err.Error())
		return "", err
	}

	used, err := h.Donations.PaymentUsed(ctx, captured.OrderID, captured.TransactionID)
	if err == nil && used {
		err = errPaymentUsed
	}
	if err == nil {
		_, err = h.Profiles.Upgrade(ctx, uid, captured.OrderID, in.contact())
		metrics.Mutation("subscription_upgrade", err)
	}
	if errors.Is(err, errPaymentUsed) || errors.Is(err, profilestore.ErrSubscriptionTaken) {
		metrics.PaymentCaptures.WithLabelValues("subscription", "replayed").Inc()
		h.Log.Warn("subscription payment replayed",
			zap.String("user_id", uid), zap.String("order_id", captured.OrderID), zap.Error(err))
		h.Audit.CaptureRejected(ctx, r, uid, captured.OrderID, err.Error())
		return "", err
	}
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues("subscription", "record_failed").Inc()
		h.Log.Error("subscription captured but profile not upgraded",
			zap.String("user_id", uid), zap.String("transaction_id", captured.TransactionID), zap.Error(err))
		h.Audit.SubscriptionRecordFailed(ctx, r, uid, captured.TransactionID, err.Error())
		return payments.CapturedButNotSaved(captured.TransactionID), err
	}
	metrics.PaymentCaptures.WithLabelValues("subscription", "recorded").Inc()
	h.Audit.SubscriptionUpgraded(ctx, r, uid, captured.OrderID)
	return "", nil
}
