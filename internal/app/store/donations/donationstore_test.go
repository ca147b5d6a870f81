package donationstore_test

import (
	"testing"
	"time"

	donationstore "github.com/chosenvessel/vesselhub/internal/app/store/donations"
	"github.com/chosenvessel/vesselhub/internal/app/system/indexes"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"go.uber.org/zap"
)

func TestSummarize(t *testing.T) {
	items := []models.Donation{
		{Amount: 100, Type: models.GiveTithe},
		{Amount: 25.5, Type: models.GiveMissions},
		{Amount: 50, Type: models.GiveTithe},
		{Amount: 10, Type: "donation"},
	}
	sum := donationstore.Summarize(items)
	if sum.Total != 185.5 || sum.Count != 4 {
		t.Errorf("Total=%v Count=%d", sum.Total, sum.Count)
	}
	if len(sum.ByType) != 3 {
		t.Fatalf("expected 3 types, got %+v", sum.ByType)
	}
	if sum.ByType[0].Type != models.GiveTithe || sum.ByType[0].Amount != 150 || sum.ByType[0].Count != 2 {
		t.Errorf("unexpected tithe total %+v", sum.ByType[0])
	}
	if sum.ByType[1].Type != models.GiveOffering || sum.ByType[1].Amount != 10 {
		t.Errorf("unknown type should fold into Offering: %+v", sum.ByType[1])
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := donationstore.Summarize(nil)
	if sum.Total != 0 || sum.Count != 0 || len(sum.ByType) != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}
}

func TestRecord_DuplicateTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	d := models.Donation{UserID: "u1", Amount: 20, Type: models.GiveOffering, TransactionID: "TX1", Status: "COMPLETED"}
	if _, err := store.Record(ctx, d); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := store.Record(ctx, d); err != donationstore.ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestHistoryFeed_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, tx := range []string{"A", "B"} {
		if _, err := store.Record(ctx, models.Donation{UserID: "u1", Amount: 5, TransactionID: tx}); err != nil {
			t.Fatalf("Record: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	_, _ = store.Record(ctx, models.Donation{Amount: 5, TransactionID: "C"})

	src, fb := store.HistoryFeed("u1")
	raw, err := src.Query(ctx)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := fb.Apply(raw)
	if len(got) != 2 || got[0].TransactionID != "B" {
		t.Errorf("unexpected history %+v", got)
	}
}

func TestPaymentUsed_MatchesOrderOrTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := models.Donation{UserID: "u1", Amount: 20, TransactionID: "TX9", OrderID: "ORD-9", Status: "COMPLETED"}
	if _, err := store.Record(ctx, d); err != nil {
		t.Fatalf("Record: %v", err)
	}

	cases := []struct {
		order, tx string
		want      bool
	}{
		{"ORD-9", "", true},
		{"", "TX9", true},
		{"ORD-1", "TX9", true},
		{"ORD-1", "TX1", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := store.PaymentUsed(ctx, c.order, c.tx)
		if err != nil {
			t.Fatalf("PaymentUsed(%q, %q): %v", c.order, c.tx, err)
		}
		if got != c.want {
			t.Errorf("PaymentUsed(%q, %q) = %v, want %v", c.order, c.tx, got, c.want)
		}
	}
}
