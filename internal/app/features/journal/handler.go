// internal/app/features/journal/handler.go
package journal

import (
	"errors"
	"net/http"
	"strings"

	notestore "github.com/chosenvessel/vesselhub/internal/app/store/notes"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Notes *notestore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Notes: notestore.New(db), Log: logger}
}

type journalData struct {
	formutil.Base
	Notes   []models.SermonNote
	Editing *models.SermonNote
}

type noteInput struct {
	Title      string `validate:"notblank,max=200" label:"Title"`
	Content    string `validate:"notblank,max=20000" label:"Notes"`
	SermonDate string `validate:"omitempty,datetime=2006-01-02" label:"Sermon date"`
}

func readNote(r *http.Request) noteInput {
	return noteInput{
		Title:      htmlsanitize.Text(r.PostFormValue("title")),
		Content:    htmlsanitize.Text(r.PostFormValue("content")),
		SermonDate: strings.TrimSpace(r.PostFormValue("sermon_date")),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/journal                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeJournal lists the member's notes. ?edit=<id> opens one in the form.
func (h *Handler) ServeJournal(w http.ResponseWriter, r *http.Request) {
	var data journalData
	formutil.SetBase(&data.Base, r, "Sermon Journal", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "journal")
	defer cancel()

	notes, err := h.Notes.Feed(data.UserID).Query(ctx)
	if err != nil {
		h.Log.Warn("load journal failed", zap.String("user_id", data.UserID), zap.Error(err))
		data.SetError("Your notes could not be loaded. They will refresh automatically.")
	}
	data.Notes = notes

	if oid, err := primitive.ObjectIDFromHex(r.URL.Query().Get("edit")); err == nil {
		n, err := h.Notes.Get(ctx, data.UserID, oid)
		if err == nil {
			data.Editing = &n
		}
	}

	templates.Render(w, r, "journal", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/journal/feed                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	live.ServeSSE(w, r, h.Notes.Feed(auth.CurrentSnapshot(r).UID()), live.Options[models.SermonNote]{
		Feed: "journal",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/journal                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()
	in := readNote(r)
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "note_create", res, "", res.First(), "/dashboard/journal")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Notes.Create(ctx, uid, in.Title, in.Content, in.SermonDate)
	if err != nil {
		h.Log.Error("create note failed", zap.String("user_id", uid), zap.Error(err))
	}
	formutil.Finish(w, r, "note_create", err,
		"Note saved.", "Your note could not be saved. Please try again.", "/dashboard/journal")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/journal/{id}/edit                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	in := readNote(r)
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "note_update", res, "", res.First(), "/dashboard/journal?edit="+oid.Hex())
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Notes.Update(ctx, uid, oid, in.Title, in.Content, in.SermonDate)
	if errors.Is(err, notestore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("update note failed", zap.String("note_id", oid.Hex()), zap.Error(err))
	}
	formutil.Finish(w, r, "note_update", err,
		"Note updated.", "Your note could not be updated. Please try again.", "/dashboard/journal")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/journal/{id}/delete                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid := auth.CurrentSnapshot(r).UID()
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Notes.Delete(ctx, uid, oid)
	if errors.Is(err, notestore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("delete note failed", zap.String("note_id", oid.Hex()), zap.Error(err))
	}
	formutil.Finish(w, r, "note_delete", err,
		"Note deleted.", "Your note could not be deleted. Please try again.", "/dashboard/journal")
}
