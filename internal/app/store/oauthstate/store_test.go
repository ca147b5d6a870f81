package oauthstate_test

import (
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/store/oauthstate"
	"github.com/chosenvessel/vesselhub/internal/testutil"
)

func TestStore_SaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-1", "/dashboard/prayer", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ret, valid, err := store.Validate(ctx, "state-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected state to be valid")
	}
	if ret != "/dashboard/prayer" {
		t.Errorf("returnURL = %q", ret)
	}
}

func TestStore_Validate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, "state-2", "", time.Now().Add(10*time.Minute))

	if _, valid, _ := store.Validate(ctx, "state-2"); !valid {
		t.Fatal("first use should be valid")
	}
	if _, valid, _ := store.Validate(ctx, "state-2"); valid {
		t.Error("second use must be rejected")
	}
}

func TestStore_Validate_ExpiredAndUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, "old", "", time.Now().Add(-time.Minute))

	if _, valid, err := store.Validate(ctx, "old"); valid || err != nil {
		t.Errorf("expired state: valid=%v err=%v", valid, err)
	}
	if _, valid, err := store.Validate(ctx, "never-saved"); valid || err != nil {
		t.Errorf("unknown state: valid=%v err=%v", valid, err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired token removed, got %d", n)
	}
}
