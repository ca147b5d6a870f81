// internal/app/features/admin/pastor.go
package admin

import (
	"errors"
	"net/http"

	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
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
	"go.uber.org/zap"
)

type inboxData struct {
	formutil.Base
	Status   string
	Threads  []models.Thread
	Selected *models.Thread
}

type staffReplyInput struct {
	Text string `validate:"notblank,max=4000" label:"Reply"`
}

func statusParam(r *http.Request) string {
	switch s := query.Get(r, "status"); s {
	case models.ThreadNew, models.ThreadReplied:
		return s
	}
	return ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/pastor                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeInbox lists every conversation, optionally filtered by ?status=.
// ?thread= opens one for reply.
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	data := inboxData{Status: statusParam(r)}
	formutil.SetBase(&data.Base, r, "Pastor Inbox", "/admin")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin pastor inbox")
	defer cancel()

	src, fb := h.Threads.InboxFeed(data.Status)
	items, err := src.Query(ctx)
	if err != nil {
		h.Log.Warn("load pastor inbox failed", zap.Error(err))
		data.SetError("Conversations could not be loaded. They will refresh automatically.")
	}
	data.Threads = fb.Apply(items)

	if raw := query.Get(r, "thread"); raw != "" {
		if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
			if th, err := h.Threads.Get(ctx, oid); err == nil {
				data.Selected = &th
			}
		}
	}

	templates.Render(w, r, "admin_pastor", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/pastor/feed                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeInboxFeed(w http.ResponseWriter, r *http.Request) {
	src, fb := h.Threads.InboxFeed(statusParam(r))
	live.ServeSSE(w, r, src, live.Options[models.Thread]{
		Feed:     "admin_pastor",
		Fallback: fb,
		Log:      h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/pastor/{id}/reply                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleReply appends a staff message signed with the admin's display name
// and marks the thread replied.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	back := "/admin/pastor?thread=" + oid.Hex()
	snap := auth.CurrentSnapshot(r)

	in := staffReplyInput{Text: htmlsanitize.Text(r.PostFormValue("text"))}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "thread_reply", res, "", res.First(), back)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	th, err := h.Threads.Append(ctx, oid, "", models.ThreadMessage{
		Sender:    models.SenderAdmin,
		AdminName: snap.DisplayName(),
		Text:      in.Text,
	})
	if errors.Is(err, threadstore.ErrNotFound) {
		formutil.Flash(r, notify.Error, "That conversation no longer exists.")
		formutil.Redirect(w, r, "/admin/pastor")
		return
	}
	if err != nil {
		h.Log.Error("staff reply failed", zap.String("thread_id", oid.Hex()), zap.Error(err))
	} else {
		h.Audit.Moderated(ctx, r, auditstore.EventThreadReplied, snap.UID(), th.OwnerID, oid.Hex())
	}
	formutil.Finish(w, r, "thread_reply", err,
		"Reply sent.", "Your reply could not be sent. Please try again.", back)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/pastor/{id}/delete                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteThread(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	th, gerr := h.Threads.Get(ctx, oid)
	_, err = h.Threads.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete thread failed", zap.String("thread_id", oid.Hex()), zap.Error(err))
	} else if gerr == nil {
		h.Audit.Moderated(ctx, r, auditstore.EventThreadDeleted, auth.CurrentSnapshot(r).UID(), th.OwnerID, oid.Hex())
	}
	formutil.Finish(w, r, "thread_delete", err,
		"Conversation deleted.", "The conversation could not be deleted. Please try again.", "/admin/pastor")
}
