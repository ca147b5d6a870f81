package indexes_test

import (
	"strings"
	"testing"

	"github.com/chosenvessel/vesselhub/internal/app/system/indexes"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestSets_NamesAreUnique(t *testing.T) {
	seen := map[string]string{}
	for _, s := range indexes.Sets() {
		if len(s.Models) == 0 {
			t.Errorf("%s: empty index set", s.Collection)
		}
		for _, m := range s.Models {
			if m.Options == nil || m.Options.Name == nil {
				t.Fatalf("%s: index without a name", s.Collection)
			}
			name := *m.Options.Name
			if prev, ok := seen[name]; ok {
				t.Errorf("index name %q used by %s and %s", name, prev, s.Collection)
			}
			seen[name] = s.Collection
		}
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesThreadIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("pastor_interactions").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	for _, want := range []string{"idx_threads_owner_last", "idx_threads_status_last", "idx_threads_last"} {
		if !names[want] {
			t.Errorf("missing index %s (have %s)", want, strings.Join(keys(names), ", "))
		}
	}
}

func TestEnsureAll_RenamesIndexWithSameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("events")
	if _, err := coll.Indexes().CreateOne(ctx, mongoIndex("date_1_legacy", bson.D{{Key: "date", Value: 1}})); err != nil {
		t.Fatalf("seed legacy index: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)
	found := false
	for cur.Next(ctx) {
		var idx bson.M
		_ = cur.Decode(&idx)
		switch idx["name"] {
		case "date_1_legacy":
			t.Error("legacy index should have been replaced")
		case "idx_events_date":
			found = true
		}
	}
	if !found {
		t.Error("expected idx_events_date")
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
