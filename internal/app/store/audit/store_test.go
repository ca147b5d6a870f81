package audit_test

import (
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/store/audit"
	"github.com/chosenvessel/vesselhub/internal/testutil"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    "u1",
		IP:        "192.168.1.1",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestStore_Query_FiltersAndOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	events := []audit.Event{
		{Category: audit.CategoryAdmin, EventType: audit.EventTierChanged, ActorID: "admin", UserID: "u1", Timestamp: base, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventRoleChanged, ActorID: "admin", UserID: "u2", Timestamp: base.Add(time.Minute), Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLogout, UserID: "u1", Timestamp: base.Add(2 * time.Minute), Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	admin, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("expected 2 admin events, got %d", len(admin))
	}
	if admin[0].EventType != audit.EventRoleChanged {
		t.Errorf("expected newest first, got %s", admin[0].EventType)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("CountByFilter: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 events for u1, got %d", n)
	}

	start := base.Add(30 * time.Second)
	ranged, err := store.Query(ctx, audit.QueryFilter{StartTime: &start})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("expected 2 events after start, got %d", len(ranged))
	}
}

func TestStore_GetFailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, Success: false})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventProfileDeleted, Success: false})

	got, err := store.GetFailedLogins(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("GetFailedLogins: %v", err)
	}
	if len(got) != 1 || got[0].EventType != audit.EventLoginFailedWrongPassword {
		t.Errorf("unexpected failed logins %+v", got)
	}
}
