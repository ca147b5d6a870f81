// internal/app/features/prayer/handler.go
package prayer

import (
	"errors"
	"net/http"
	"strings"

	prayerstore "github.com/chosenvessel/vesselhub/internal/app/store/prayers"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// wallSize caps the number of requests on the wall.
const wallSize = 200

type Handler struct {
	Prayers *prayerstore.Store
	Limiter *ratelimit.ActionLimiter
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, limiter *ratelimit.ActionLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Prayers: prayerstore.New(db),
		Limiter: limiter,
		Log:     logger,
	}
}

type wallData struct {
	formutil.Base
	Requests   []models.PrayerRequest
	Categories []string
	Content    string
	Category   string
}

type prayerInput struct {
	Content    string `validate:"notblank,max=2000" label:"Prayer request"`
	Category   string `validate:"omitempty,max=40" label:"Category"`
	Visibility string `validate:"oneof=public private" label:"Visibility"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/prayer                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeWall renders the first snapshot of the wall; the page then follows
// /dashboard/prayer/feed.
func (h *Handler) ServeWall(w http.ResponseWriter, r *http.Request) {
	data := wallData{Categories: models.PrayerCategories, Category: models.DefaultPrayerCategory}
	formutil.SetBase(&data.Base, r, "Prayer Wall", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "prayer wall")
	defer cancel()

	src, fb := h.Prayers.WallFeed(data.UserID, wallSize)
	items, err := src.Query(ctx)
	if err != nil {
		h.Log.Warn("load prayer wall failed", zap.Error(err))
		data.SetError("The prayer wall could not be loaded. It will refresh automatically.")
	}
	data.Requests = fb.Apply(items)

	templates.Render(w, r, "prayer_wall", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/prayer/feed                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	src, fb := h.Prayers.WallFeed(auth.CurrentSnapshot(r).UID(), wallSize)
	live.ServeSSE(w, r, src, live.Options[models.PrayerRequest]{
		Feed:     "prayer_wall",
		Fallback: fb,
		Log:      h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/prayer                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate posts a request. Private requests are a golden vessel
// feature; the tier is checked here, not only in the form.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	snap := auth.CurrentSnapshot(r)

	in := prayerInput{
		Content:    htmlsanitize.Text(r.PostFormValue("content")),
		Category:   strings.TrimSpace(r.PostFormValue("category")),
		Visibility: models.VisibilityPublic,
	}
	if r.PostFormValue("private") == "on" {
		in.Visibility = models.VisibilityPrivate
	}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "prayer_create", res, "", res.First(), "/dashboard/prayer")
		return
	}
	if in.Visibility == models.VisibilityPrivate && !snap.Profile.IsPremium() {
		formutil.Flash(r, notify.Error, "Private requests are available to Golden Vessel members.")
		formutil.Redirect(w, r, "/dashboard/prayer")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Prayers.Create(ctx, prayerstore.NewRequest{
		AuthorID:   snap.UID(),
		AuthorName: snap.DisplayName(),
		Content:    in.Content,
		Category:   in.Category,
		Visibility: in.Visibility,
		Anonymous:  r.PostFormValue("anonymous") == "on",
	})
	if err != nil {
		h.Log.Error("create prayer failed", zap.String("user_id", snap.UID()), zap.Error(err))
	}
	formutil.Finish(w, r, "prayer_create", err,
		"Prayer request shared.", "Your prayer request could not be shared. Please try again.", "/dashboard/prayer")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/prayer/{id}/pray                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandlePray adds one to the request's prayed count. Repeated presses by the
// same member on the same request are throttled.
func (h *Handler) HandlePray(w http.ResponseWriter, r *http.Request) {
	uid := auth.CurrentSnapshot(r).UID()
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if h.Limiter != nil && !h.Limiter.AllowAction("pray", uid, idHex) {
		formutil.Flash(r, notify.Info, "Thank you. You've already prayed for this request just now.")
		formutil.Redirect(w, r, "/dashboard/prayer")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Prayers.IncrementPrayed(ctx, oid)
	if err != nil && !errors.Is(err, prayerstore.ErrNotFound) {
		h.Log.Error("increment prayed failed", zap.String("prayer_id", idHex), zap.Error(err))
	}
	formutil.Finish(w, r, "prayer_pray", err,
		"Thank you for praying.", "That prayer could not be updated.", "/dashboard/prayer")
}
