// Package toasts serves the per-viewer toast feed and resolves confirmation
// prompts raised with notify.Center.Confirm.
package toasts

import (
	"errors"
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Center *notify.Center
	Log    *zap.Logger
}

func NewHandler(center *notify.Center, logger *zap.Logger) *Handler {
	return &Handler{Center: center, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /notify/feed                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFeed streams the viewer's active toasts. Every change (shown,
// dismissed, expired) sends the whole list again.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	uid := auth.CurrentSnapshot(r).UID()
	live.ServeSSE[notify.Toast](w, r, centerSource{center: h.Center, viewer: uid}, live.Options[notify.Toast]{
		Feed: "toasts",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /notify/dismiss/{id}                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	uid := auth.CurrentSnapshot(r).UID()
	h.Center.Dismiss(uid, chi.URLParam(r, "id"))
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	formutil.Redirect(w, r, urlutil.SafeReturn(r.FormValue("return"), "", "/dashboard"))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /notify/confirm/{token}                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleConfirm closes the viewer's pending prompt. accept=1 runs the
// prompt's action; anything else cancels it. The action shows its own
// success toast; failures are reported here.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()
	token := chi.URLParam(r, "token")
	accepted := r.PostFormValue("accept") == "1"

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Center.Resolve(ctx, uid, token, accepted)
	switch {
	case errors.Is(err, notify.ErrStaleConfirm):
		h.Center.Show(uid, "That confirmation is no longer open.", notify.Info)
	case errors.Is(err, notify.ErrDenied):
		h.Log.Warn("confirmed action denied", zap.String("user_id", uid))
		h.Center.Show(uid, "You no longer have permission to do that.", notify.Error)
	case err != nil:
		h.Log.Warn("confirmed action failed", zap.String("user_id", uid), zap.Error(err))
		h.Center.Show(uid, "The change could not be applied. Please try again.", notify.Error)
	}

	formutil.Redirect(w, r, urlutil.SafeReturn(r.PostFormValue("return"), "", "/dashboard"))
}
