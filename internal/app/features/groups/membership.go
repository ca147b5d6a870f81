// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"errors"
	"net/http"

	groupstore "github.com/chosenvessel/vesselhub/internal/app/store/groups"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/groups/{id}/join                                             |
| POST /dashboard/groups/{id}/leave                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, "group_join", h.Groups.Join)
}

func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, "group_leave", h.Groups.Leave)
}

// cardView renders one card outside the page, where the range context
// carries no CSRF token.
type cardView struct {
	groupCard
	CSRFToken string
}

type membershipFunc func(ctx context.Context, id, uid string) (models.Group, error)

// changeMembership applies one membership write and answers with the group
// as stored after the write. HTMX callers get the re-rendered card; others
// are redirected back to the directory.
func (h *Handler) changeMembership(w http.ResponseWriter, r *http.Request, op string, apply membershipFunc) {
	uid := auth.CurrentSnapshot(r).UID()
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	g, err := apply(ctx, id, uid)
	metrics.Mutation(op, err)
	switch {
	case errors.Is(err, groupstore.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		h.Log.Error("group membership change failed",
			zap.String("op", op), zap.String("group_id", id), zap.String("user_id", uid), zap.Error(err))
		formutil.Flash(r, notify.Error, "Your group membership could not be updated. Please try again.")
		formutil.Redirect(w, r, "/dashboard/groups")
		return
	}

	msg := "You joined " + g.Name + "."
	if op == "group_leave" {
		msg = "You left " + g.Name + "."
	}
	formutil.Flash(r, notify.Success, msg)

	if r.Header.Get("HX-Request") == "true" {
		templates.Render(w, r, "group_card", cardView{groupCard: cardFor(g, uid), CSRFToken: csrf.Token(r)})
		return
	}
	formutil.Redirect(w, r, "/dashboard/groups")
}
