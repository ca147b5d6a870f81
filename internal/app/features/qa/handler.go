// internal/app/features/qa/handler.go
package qa

import (
	"net/http"

	questionstore "github.com/chosenvessel/vesselhub/internal/app/store/questions"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Tabs.
const (
	TabMine      = "mine"
	TabCommunity = "community"
)

type Handler struct {
	Questions *questionstore.Store
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Questions: questionstore.New(db), Log: logger}
}

type pageData struct {
	formutil.Base
	Tab       string
	Questions []models.Question
}

type questionInput struct {
	Content string `validate:"notblank,max=2000" label:"Question"`
}

// Tab reads ?tab=, defaulting to the member's own questions.
func Tab(r *http.Request) string {
	if query.Get(r, "tab") == TabCommunity {
		return TabCommunity
	}
	return TabMine
}

func (h *Handler) source(r *http.Request, tab string) live.Source[models.Question] {
	if tab == TabCommunity {
		return h.Questions.CommunityFeed()
	}
	return h.Questions.MineFeed(auth.CurrentSnapshot(r).UID())
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/qa?tab=mine|community                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeQA(w http.ResponseWriter, r *http.Request) {
	data := pageData{Tab: Tab(r)}
	formutil.SetBase(&data.Base, r, "Bishop Q&A", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "bishop q&a")
	defer cancel()

	list, err := h.source(r, data.Tab).Query(ctx)
	if err != nil {
		h.Log.Warn("load questions failed", zap.String("tab", data.Tab), zap.Error(err))
		data.SetError("Questions could not be loaded. They will refresh automatically.")
	}
	data.Questions = list

	templates.Render(w, r, "qa", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/qa/feed?tab=                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	tab := Tab(r)
	live.ServeSSE(w, r, h.source(r, tab), live.Options[models.Question]{
		Feed: "qa_" + tab,
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/qa                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSubmit records a question for the bishop. Public questions appear
// in the community tab once answered.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	snap := auth.CurrentSnapshot(r)
	in := questionInput{Content: htmlsanitize.Text(r.PostFormValue("content"))}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Flash(r, notify.Error, res.First())
		formutil.Redirect(w, r, "/dashboard/qa")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Questions.Submit(ctx, snap.UID(), snap.DisplayName(), in.Content, r.PostFormValue("public") == "on")
	if err != nil {
		h.Log.Error("submit question failed", zap.String("user_id", snap.UID()), zap.Error(err))
	}
	formutil.Finish(w, r, "question_submit", err,
		"Your question was sent to Bishop Sapp.", "Your question could not be sent.", "/dashboard/qa")
}
