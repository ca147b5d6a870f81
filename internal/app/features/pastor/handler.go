// internal/app/features/pastor/handler.go
package pastor

import (
	"errors"
	"net/http"

	threadstore "github.com/chosenvessel/vesselhub/internal/app/store/threads"
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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Threads *threadstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Threads: threadstore.New(db),
		Log:     logger,
	}
}

// Subject is a selectable conversation topic.
type Subject struct {
	Value string
	Label string
}

var Subjects = []Subject{
	{models.SubjectPrayer, "Prayer"},
	{models.SubjectCounseling, "Counseling"},
	{models.SubjectTestimony, "Testimony"},
	{models.SubjectQuestion, "Question"},
}

type pageData struct {
	formutil.Base
	Subjects []Subject
	Threads  []models.Thread
	Selected *models.Thread
}

type newThreadInput struct {
	Subject string `validate:"oneof=prayer counseling testimony question" label:"Subject"`
	Text    string `validate:"notblank,max=4000" label:"Message"`
}

type replyInput struct {
	Text string `validate:"notblank,max=4000" label:"Message"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/pastor                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeInbox lists the member's conversations. ?thread= selects one.
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	data := pageData{Subjects: Subjects}
	formutil.SetBase(&data.Base, r, "Pastor Connect", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pastor threads")
	defer cancel()

	threads, err := h.Threads.OwnerFeed(data.UserID).Query(ctx)
	if err != nil {
		h.Log.Warn("load threads failed", zap.String("user_id", data.UserID), zap.Error(err))
		data.SetError("Your conversations could not be loaded. They will refresh automatically.")
	}
	data.Threads = threads

	if sel := query.Get(r, "thread"); sel != "" {
		for i := range threads {
			if threads[i].ID.Hex() == sel {
				data.Selected = &threads[i]
				break
			}
		}
	}

	templates.Render(w, r, "pastor_inbox", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/pastor/feed                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	live.ServeSSE(w, r, h.Threads.OwnerFeed(auth.CurrentSnapshot(r).UID()), live.Options[models.Thread]{
		Feed: "pastor_threads",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/pastor                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	snap := auth.CurrentSnapshot(r)
	in := newThreadInput{
		Subject: r.PostFormValue("subject"),
		Text:    htmlsanitize.Text(r.PostFormValue("text")),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Flash(r, notify.Error, res.First())
		formutil.Redirect(w, r, "/dashboard/pastor")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	th, err := h.Threads.Create(ctx, snap.UID(), snap.DisplayName(), in.Subject, in.Text)
	if err != nil {
		h.Log.Error("create thread failed", zap.String("user_id", snap.UID()), zap.Error(err))
		formutil.Finish(w, r, "thread_create", err, "", "Your message could not be sent.", "/dashboard/pastor")
		return
	}
	formutil.Finish(w, r, "thread_create", nil,
		"Your message was sent. A pastor will reply soon.", "", "/dashboard/pastor?thread="+th.ID.Hex())
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/pastor/{id}/reply                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleReply appends a follow-up to one of the member's own threads.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	back := "/dashboard/pastor?thread=" + idHex

	in := replyInput{Text: htmlsanitize.Text(r.PostFormValue("text"))}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Flash(r, notify.Error, res.First())
		formutil.Redirect(w, r, back)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err = h.Threads.Append(ctx, oid, uid, models.ThreadMessage{Sender: models.SenderUser, Text: in.Text})
	if errors.Is(err, threadstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("append thread failed", zap.String("thread_id", idHex), zap.Error(err))
	}
	formutil.Finish(w, r, "thread_append", err, "", "Your reply could not be sent.", back)
}
