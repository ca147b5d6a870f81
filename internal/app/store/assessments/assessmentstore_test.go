package assessmentstore_test

import (
	"reflect"
	"testing"

	assessmentstore "github.com/chosenvessel/vesselhub/internal/app/store/assessments"
	"github.com/chosenvessel/vesselhub/internal/testutil"
)

func uniform(v int) []int {
	out := make([]int, len(assessmentstore.Questions))
	for i := range out {
		out[i] = v
	}
	return out
}

func TestScore_TopThreeByScore(t *testing.T) {
	answers := uniform(1)
	// Questions 3 and 10 are Teaching, 7 and 14 Mercy, 6 Leadership.
	answers[2], answers[9] = 5, 5
	answers[6], answers[13] = 4, 4
	answers[5] = 5

	scores, top, err := assessmentstore.Score(answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if scores[assessmentstore.GiftTeaching] != 10 {
		t.Errorf("Teaching = %d, want 10", scores[assessmentstore.GiftTeaching])
	}
	want := []string{assessmentstore.GiftTeaching, assessmentstore.GiftMercy, assessmentstore.GiftLeadership}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("top = %v, want %v", top, want)
	}
}

func TestScore_TiesBrokenByName(t *testing.T) {
	_, top, err := assessmentstore.Score(uniform(3))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	want := []string{assessmentstore.GiftExhortation, assessmentstore.GiftGiving, assessmentstore.GiftLeadership}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("top = %v, want %v", top, want)
	}
}

func TestScore_RejectsBadInput(t *testing.T) {
	if _, _, err := assessmentstore.Score([]int{1, 2}); err != assessmentstore.ErrInvalidAnswers {
		t.Errorf("short answers: %v", err)
	}
	bad := uniform(3)
	bad[0] = 6
	if _, _, err := assessmentstore.Score(bad); err != assessmentstore.ErrInvalidAnswers {
		t.Errorf("out of range: %v", err)
	}
}

func TestSave_Overwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assessmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Save(ctx, "u1", uniform(2)); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	answers := uniform(1)
	answers[4], answers[11] = 5, 5
	if _, err := store.Save(ctx, "u1", answers); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TopGifts[0] != assessmentstore.GiftGiving {
		t.Errorf("expected latest result, got %v", got.TopGifts)
	}
	n, _ := db.Collection("assessments").CountDocuments(ctx, map[string]any{})
	if n != 1 {
		t.Errorf("expected one assessment per member, got %d", n)
	}
}
