package giving

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/indexes"
	"github.com/chosenvessel/vesselhub/internal/app/system/payments"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type rejectingVerifier struct{}

func (rejectingVerifier) Capture(context.Context, payments.Claim) (*payments.Capture, error) {
	return nil, payments.ErrNotCompleted
}

func giftInput(order string) captureInput {
	return captureInput{OrderID: order, Amount: 50, Type: models.GiveTithe}
}

func TestSettle_Recorded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, payments.Disabled{}, nil, "", zap.NewNop())
	r := httptest.NewRequest("POST", "/give/capture", nil)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db, zap.NewNop()))

	out := h.settle(ctx, r, "", giftInput("ORDER-1"), payments.Claim{OrderID: "ORDER-1", Amount: 50})
	require.NotNil(t, out.Receipt)
	assert.Empty(t, out.PaymentError)
	assert.Empty(t, out.RecordError)
	assert.Equal(t, models.AnonymousUser, out.Receipt.UserID)

	// Replaying the same capture shows the receipt without a second record.
	again := h.settle(ctx, r, "", giftInput("ORDER-1"), payments.Claim{OrderID: "ORDER-1", Amount: 50})
	require.NotNil(t, again.Receipt)
	n, err := db.Collection("donations").CountDocuments(ctx, bson.M{"transaction_id": "ORDER-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSettle_Rejected(t *testing.T) {
	h := &Handler{Payments: rejectingVerifier{}, Log: zap.NewNop()}
	r := httptest.NewRequest("POST", "/give/capture", nil)

	out := h.settle(context.Background(), r, "u1", giftInput("ORDER-2"), payments.Claim{OrderID: "ORDER-2", Amount: 50})
	assert.Nil(t, out.Receipt)
	assert.NotEmpty(t, out.PaymentError)
	assert.Empty(t, out.RecordError)
}

func TestSettle_CapturedButNotSaved(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	h := NewHandler(client.Database("unreachable"), payments.Disabled{}, nil, "", zap.NewNop())
	r := httptest.NewRequest("POST", "/dashboard/giving/capture", nil)

	out := h.settle(context.Background(), r, "u1", giftInput("ORDER-3"),
		payments.Claim{OrderID: "ORDER-3", TransactionID: "CAP-3", Amount: 50})
	assert.Nil(t, out.Receipt)
	assert.Empty(t, out.PaymentError, "a captured charge must not look like a failed payment")
	assert.Equal(t, payments.CapturedButNotSaved("CAP-3"), out.RecordError)
}
