package contentstore_test

import (
	"testing"
	"time"

	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/chosenvessel/vesselhub/internal/testutil"
)

func TestCreateGetUpdate_Event(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := &models.Event{Date: "2026-05-01", Time: "7:00 PM", Location: "Sanctuary", Category: "Worship"}
	ev.Title = "Revival Night"
	if err := store.Create(ctx, ev); err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := ev.CreatedAt

	ev.Location = "Fellowship Hall"
	if err := store.Update(ctx, ev); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, models.KindEvent, ev.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	loaded, ok := got.(*models.Event)
	if !ok {
		t.Fatalf("Get returned %T", got)
	}
	if loaded.Location != "Fellowship Hall" || loaded.Type != models.KindEvent {
		t.Errorf("unexpected event %+v", loaded)
	}
	if d := loaded.CreatedAt.Sub(created); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("created_at changed on update: %v vs %v", loaded.CreatedAt, created)
	}
}

func TestSharedCollection_KindsStayApart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := &models.Sermon{Author: "Bishop"}
	s.Title = "Vessels of Honor"
	a := &models.GroupAnnouncement{GroupID: "men-of-valor"}
	a.Title = "Retreat"
	_ = store.Create(ctx, s)
	_ = store.Create(ctx, a)

	sermons, err := store.List(ctx, models.KindSermon)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sermons) != 1 || sermons[0].Base().Title != "Vessels of Honor" {
		t.Errorf("unexpected sermons %+v", sermons)
	}

	if _, err := store.Get(ctx, models.KindSermon, a.ID); err != contentstore.ErrNotFound {
		t.Errorf("announcement read as sermon: %v", err)
	}
}

func TestDailyBread_TodayElseLatest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, found, err := store.DailyBread(ctx, "2026-03-02"); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}

	for _, date := range []string{"2026-02-27", "2026-03-01"} {
		d := &models.Devotional{Date: date}
		d.Title = date
		_ = store.Create(ctx, d)
	}

	d, found, err := store.DailyBread(ctx, "2026-03-02")
	if err != nil || !found || d.Date != "2026-03-01" {
		t.Errorf("expected latest devotional, got %+v found=%v err=%v", d, found, err)
	}
	d, _, _ = store.DailyBread(ctx, "2026-02-27")
	if d.Date != "2026-02-27" {
		t.Errorf("expected today's devotional, got %s", d.Date)
	}
}

func TestLibrary_SearchAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mk := func(title, author, typ, date string) {
		r := &models.LibraryResource{ResourceType: typ, Author: author, Date: date}
		r.Title = title
		if err := store.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mk("Walking in Purpose", "Bishop Sapp", "audio", "2026-01-01")
	mk("Prayer Guide", "Sis. Sarah", "pdf", "2026-02-01")
	mk("Purpose Workbook", "Min. David", "pdf", "2026-03-01")

	got, err := store.Library(ctx, contentstore.LibraryQuery{Search: "PURPOSE"})
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Purpose Workbook" {
		t.Errorf("unexpected search result %+v", got)
	}

	got, _ = store.Library(ctx, contentstore.LibraryQuery{Search: "sapp"})
	if len(got) != 1 {
		t.Errorf("author search: %+v", got)
	}

	got, _ = store.Library(ctx, contentstore.LibraryQuery{ResourceType: "pdf"})
	if len(got) != 2 {
		t.Errorf("type filter: %+v", got)
	}
}

func TestAnnouncementFeed_OnlyMyGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, gid := range []string{"men-of-valor", "the-bridge"} {
		a := &models.GroupAnnouncement{GroupID: gid}
		a.Title = gid
		_ = store.Create(ctx, a)
	}

	src, fb := store.AnnouncementFeed([]string{"the-bridge"})
	raw, err := src.Query(ctx)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := fb.Apply(raw)
	if len(got) != 1 || got[0].GroupID != "the-bridge" {
		t.Errorf("unexpected announcements %+v", got)
	}
}
