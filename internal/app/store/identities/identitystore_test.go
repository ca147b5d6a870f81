package identitystore_test

import (
	"testing"

	identitystore "github.com/chosenvessel/vesselhub/internal/app/store/identities"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) *identitystore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	// The unique email index is what rejects duplicates.
	if _, err := db.Collection("identities").Indexes().CreateOne(ctx, emailIndex()); err != nil {
		t.Fatalf("create index: %v", err)
	}
	return identitystore.New(db).WithCost(bcrypt.MinCost)
}

func TestCreatePassword_AndAuthenticate(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.CreatePassword(ctx, " Ada@Example.com ", "secret1", "Ada")
	if err != nil {
		t.Fatalf("CreatePassword: %v", err)
	}

	got, found, err := store.Authenticate(ctx, "ada@example.com", "secret1")
	if err != nil || !found {
		t.Fatalf("Authenticate: found=%v err=%v", found, err)
	}
	if got.UID() != created.UID() {
		t.Errorf("UID = %s, want %s", got.UID(), created.UID())
	}

	_, found, err = store.Authenticate(ctx, "ada@example.com", "wrong")
	if err != identitystore.ErrInvalidCredentials || !found {
		t.Errorf("wrong password: found=%v err=%v", found, err)
	}
	_, found, err = store.Authenticate(ctx, "nobody@example.com", "secret1")
	if err != identitystore.ErrInvalidCredentials || found {
		t.Errorf("unknown email: found=%v err=%v", found, err)
	}
}

func TestCreatePassword_Rules(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.CreatePassword(ctx, "a@b.co", "123", "A"); err != identitystore.ErrWeakPassword {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := store.CreatePassword(ctx, "a@b.co", "123456", "A"); err != nil {
		t.Fatalf("CreatePassword: %v", err)
	}
	if _, err := store.CreatePassword(ctx, "A@B.CO", "654321", "B"); err != identitystore.ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpsertGoogle_LinksByEmail(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pw, err := store.CreatePassword(ctx, "grace@example.com", "secret1", "Grace")
	if err != nil {
		t.Fatalf("CreatePassword: %v", err)
	}

	linked, created, err := store.UpsertGoogle(ctx, "g-123", "Grace@example.com", "Grace H")
	if err != nil {
		t.Fatalf("UpsertGoogle: %v", err)
	}
	if created || linked.UID() != pw.UID() {
		t.Errorf("expected link to existing identity, created=%v", created)
	}

	again, created, err := store.UpsertGoogle(ctx, "g-123", "grace@example.com", "Grace H")
	if err != nil || created || again.UID() != pw.UID() {
		t.Errorf("second sign-in: created=%v err=%v", created, err)
	}

	fresh, created, err := store.UpsertGoogle(ctx, "g-999", "new@example.com", "New")
	if err != nil || !created {
		t.Fatalf("new google identity: created=%v err=%v", created, err)
	}
	if _, err := store.Get(ctx, fresh.UID()); err != nil {
		t.Errorf("Get: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.CreatePassword(ctx, "ruth@example.com", "secret1", "Ruth")
	if err != nil {
		t.Fatalf("CreatePassword: %v", err)
	}
	uid := created.UID()

	tests := []struct {
		name    string
		current string
		next    string
		want    error
	}{
		{"wrong current", "nope", "secret2", identitystore.ErrInvalidCredentials},
		{"too short", "secret1", "abc", identitystore.ErrWeakPassword},
		{"unchanged", "secret1", "secret1", identitystore.ErrSamePassword},
		{"ok", "secret1", "secret2", nil},
	}
	for _, tt := range tests {
		if err := store.ChangePassword(ctx, uid, tt.current, tt.next); err != tt.want {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, _, err := store.Authenticate(ctx, "ruth@example.com", "secret2"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, _, err := store.Authenticate(ctx, "ruth@example.com", "secret1"); err != identitystore.ErrInvalidCredentials {
		t.Errorf("old password still accepted: %v", err)
	}
}
