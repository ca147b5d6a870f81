package subscribe

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	donationstore "github.com/chosenvessel/vesselhub/internal/app/store/donations"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
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

// underpaid confirms an order for less than the membership price.
type underpaid struct{}

func (underpaid) Capture(_ context.Context, c payments.Claim) (*payments.Capture, error) {
	return &payments.Capture{OrderID: c.OrderID, TransactionID: "CAP-1", Amount: 1, Currency: "USD"}, nil
}

func sampleInput(order string) contactInput {
	return contactInput{
		FirstName: "Lydia", LastName: "Thyatira", Phone: "555-0100",
		Address: "1 River Rd", City: "Philippi", State: "MA", Zip: "01001",
		Type: "virtual", OrderID: order,
	}
}

func TestUpgrade_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fixtures.CreateProfile(ctx, "Lydia", models.RoleMember, models.TierVessel)

	h := NewHandler(db, payments.Disabled{}, nil, "", zap.NewNop())
	msg, err := h.upgrade(ctx, httptest.NewRequest("POST", "/subscribe/capture", nil), p.ID, sampleInput("SUB-1"))
	require.NoError(t, err)
	assert.Empty(t, msg)

	var got models.Profile
	require.NoError(t, db.Collection("users").FindOne(ctx, bson.M{"_id": p.ID}).Decode(&got))
	assert.Equal(t, models.TierGoldenVessel, got.Tier)
	assert.Equal(t, "SUB-1", got.SubscriptionID)
	assert.True(t, got.HasBadge(models.BadgeGoldenVessel))
	require.NotNil(t, got.ContactInfo)
	assert.Equal(t, "virtual", got.ContactInfo.Type)
}

func TestUpgrade_UnderpaidIsRejected(t *testing.T) {
	h := &Handler{Payments: underpaid{}, Log: zap.NewNop()}
	msg, err := h.upgrade(context.Background(), httptest.NewRequest("POST", "/subscribe/capture", nil), "u1", sampleInput("SUB-2"))
	assert.ErrorIs(t, err, payments.ErrInvalidClaim)
	assert.Empty(t, msg)
}

func TestUpgrade_CapturedButNotSaved(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	h := NewHandler(client.Database("unreachable"), payments.Disabled{}, nil, "", zap.NewNop())
	msg, err := h.upgrade(context.Background(), httptest.NewRequest("POST", "/subscribe/capture", nil), "u1", sampleInput("SUB-3"))
	require.Error(t, err)
	assert.Equal(t, payments.CapturedButNotSaved("SUB-3"), msg)
}

func TestUpgrade_ReplayedOrderIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db, zap.NewNop()))
	first := fixtures.CreateProfile(ctx, "Lydia", models.RoleMember, models.TierVessel)
	second := fixtures.CreateProfile(ctx, "Tabitha", models.RoleMember, models.TierVessel)

	h := NewHandler(db, payments.Disabled{}, nil, "", zap.NewNop())
	req := httptest.NewRequest("POST", "/subscribe/capture", nil)
	_, err := h.upgrade(ctx, req, first.ID, sampleInput("SUB-9"))
	require.NoError(t, err)

	msg, err := h.upgrade(ctx, req, second.ID, sampleInput("SUB-9"))
	assert.ErrorIs(t, err, profilestore.ErrSubscriptionTaken)
	assert.Empty(t, msg)

	var got models.Profile
	require.NoError(t, db.Collection("users").FindOne(ctx, bson.M{"_id": second.ID}).Decode(&got))
	assert.Equal(t, models.TierVessel, got.Tier)
	assert.Empty(t, got.SubscriptionID)
}

func TestUpgrade_DonatedOrderIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fixtures.CreateProfile(ctx, "Lydia", models.RoleMember, models.TierVessel)

	_, err := donationstore.New(db).Record(ctx, models.Donation{
		UserID: p.ID, Amount: 25, TransactionID: "CAP-5", OrderID: "ORD-5", Status: "COMPLETED",
	})
	require.NoError(t, err)

	h := NewHandler(db, payments.Disabled{}, nil, "", zap.NewNop())
	msg, err := h.upgrade(ctx, httptest.NewRequest("POST", "/subscribe/capture", nil), p.ID, sampleInput("ORD-5"))
	assert.ErrorIs(t, err, errPaymentUsed)
	assert.Empty(t, msg)

	var got models.Profile
	require.NoError(t, db.Collection("users").FindOne(ctx, bson.M{"_id": p.ID}).Decode(&got))
	assert.Equal(t, models.TierVessel, got.Tier)
}
