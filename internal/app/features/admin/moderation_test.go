package admin_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/features/admin"
	notificationstore "github.com/chosenvessel/vesselhub/internal/app/store/notifications"
	prayerstore "github.com/chosenvessel/vesselhub/internal/app/store/prayers"
	questionstore "github.com/chosenvessel/vesselhub/internal/app/store/questions"
	threadstore "github.com/chosenvessel/vesselhub/internal/app/store/threads"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(h *admin.Handler, u testutil.TestUser, target string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	admin.Routes(h).ServeHTTP(rec, testutil.WithUser(testutil.NewFormRequest(target, form), u))
	return rec
}

func TestDeletePrayer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := testutil.NewFixtures(t, db).CreatePrayer(ctx, "someone", "please pray", models.VisibilityPrivate, time.Now())

	rec := post(h, testutil.Admin(), "/prayers/"+p.ID.Hex()+"/delete")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	_, err := prayerstore.New(db).Get(ctx, p.ID)
	assert.ErrorIs(t, err, prayerstore.ErrNotFound)
}

func TestNotifications_CreateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	u := testutil.Admin()

	rec := postForm(h, u, "/notifications", url.Values{"title": {"Service moved"}, "message": {"Sunday at 11."}, "severity": {"alert"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := notificationstore.New(db)
	items, err := store.Latest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.SeverityAlert, items[0].Severity)
	assert.Equal(t, u.Name, items[0].CreatedBy)

	post(h, u, "/notifications/"+items[0].ID.Hex()+"/delete")
	items, err = store.Latest(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNotifications_RejectsUnknownSeverity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)

	postForm(h, testutil.Admin(), "/notifications", url.Values{"title": {"x"}, "message": {"y"}, "severity": {"panic"}})

	ctx, cancel := testutil.TestContext()
	defer cancel()
	items, err := notificationstore.New(db).Latest(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPastorReply_MarksReplied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	staff := testutil.Admin()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	th := testutil.NewFixtures(t, db).CreateThread(ctx, "member-1", models.SubjectCounseling, "I need advice")

	rec := postForm(h, staff, "/pastor/"+th.ID.Hex()+"/reply", url.Values{"text": {"Let's talk Sunday."}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/pastor?thread="+th.ID.Hex(), rec.Header().Get("Location"))

	got, err := threadstore.New(db).Get(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ThreadReplied, got.Status)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, models.SenderAdmin, got.Messages[1].Sender)
	assert.Equal(t, staff.Name, got.Messages[1].AdminName)
}

func TestAnswerQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := questionstore.New(db)
	q, err := store.Submit(ctx, "member-1", "Member", "What is grace?", true)
	require.NoError(t, err)

	rec := postForm(h, testutil.Admin(), "/questions/"+q.ID.Hex()+"/answer", url.Values{"answer": {"Unmerited favor."}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.QuestionAnswered, all[0].Status)
	assert.Equal(t, "Unmerited favor.", all[0].Answer)
}

func TestStream_LiveNeedsVideo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)

	postForm(h, testutil.Admin(), "/stream", url.Values{"is_live": {"on"}})

	ctx, cancel := testutil.TestContext()
	defer cancel()
	cfg, err := h.Stream.Get(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.IsLive)

	postForm(h, testutil.Admin(), "/stream", url.Values{"video_id": {"dQw4w9WgXcQ"}, "is_live": {"on"}})
	cfg, err = h.Stream.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.IsLive)
	assert.Equal(t, "dQw4w9WgXcQ", cfg.VideoID)
}
