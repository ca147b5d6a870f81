// internal/app/features/admin/users.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/guard"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/paging"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type userRow struct {
	ID         string
	Name       string
	Email      string
	RoleLabel  string
	TierLabel  string
	IsAdmin    bool
	IsPremium  bool
	IsSelf     bool
	NextRole   string
	NextTier   string
	JoinedDate string
}

type usersData struct {
	formutil.Base
	Rows  []userRow
	Range paging.Range
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	var data usersData
	formutil.SetBase(&data.Base, r, "Users", "/admin")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin users")
	defer cancel()

	start := paging.ParseStart(r)
	profiles, err := h.Profiles.ListPage(ctx, paging.Skip(start), paging.LimitPlusOne())
	if err != nil {
		h.Log.Error("list profiles failed", zap.Error(err))
		data.SetError("Users could not be loaded.")
	}
	hasNext := paging.TrimPage(&profiles)

	for _, p := range profiles {
		data.Rows = append(data.Rows, userRow{
			ID:         p.ID,
			Name:       p.DisplayName,
			Email:      p.Email,
			RoleLabel:  models.RoleLabel(p.Role),
			TierLabel:  models.TierLabel(p.Tier),
			IsAdmin:    p.IsAdmin(),
			IsPremium:  p.IsPremium(),
			IsSelf:     p.ID == data.UserID,
			NextRole:   models.RoleLabel(models.ToggledRole(p.Role)),
			NextTier:   models.TierLabel(models.ToggledTier(p.Tier)),
			JoinedDate: p.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	data.Range = paging.ComputeRange(start, len(data.Rows), hasNext)

	templates.Render(w, r, "admin_users", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{id}/role                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleToggleRole asks the admin to confirm before flipping member and
// admin. The change itself runs when the prompt is accepted through
// /notify/confirm, only if the accepting request still passes the admin
// guard, and writes only the role field.
func (h *Handler) HandleToggleRole(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "role")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{id}/tier                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleToggleTier(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "tier")
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, field string) {
	actor := auth.CurrentSnapshot(r).UID()
	uid := chi.URLParam(r, "id")
	back := "/admin/users"

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin toggle")
	defer cancel()

	p, err := h.Profiles.Get(ctx, uid)
	if errors.Is(err, profilestore.ErrNotFound) {
		formutil.Flash(r, notify.Error, "That user no longer exists.")
		formutil.Redirect(w, r, back)
		return
	}
	if err != nil {
		h.Log.Error("load profile failed", zap.String("user_id", uid), zap.Error(err))
		formutil.Flash(r, notify.Error, "The user could not be loaded.")
		formutil.Redirect(w, r, back)
		return
	}

	var msg string
	var action notify.Action
	switch field {
	case "role":
		if uid == actor {
			formutil.Flash(r, notify.Error, "You cannot change your own role.")
			formutil.Redirect(w, r, back)
			return
		}
		from, to := p.Role, models.ToggledRole(p.Role)
		msg = fmt.Sprintf("Change %s from %s to %s?", p.DisplayName, models.RoleLabel(from), models.RoleLabel(to))
		action = h.roleAction(r, actor, p.ID, p.DisplayName, from, to)
	default:
		from, to := p.Tier, models.ToggledTier(p.Tier)
		msg = fmt.Sprintf("Change %s from %s to %s?", p.DisplayName, models.TierLabel(from), models.TierLabel(to))
		action = h.tierAction(r, actor, p.ID, p.DisplayName, from, to)
	}

	h.Center.ConfirmGated(actor, msg, guard.AdminGate, action)
	formutil.Redirect(w, r, back)
}

// roleAction captures everything it needs up front; it runs on a later
// request after the admin accepts.
func (h *Handler) roleAction(r *http.Request, actor, uid, name, from, to string) notify.Action {
	req := r.Clone(context.WithoutCancel(r.Context()))
	return func(ctx context.Context) error {
		err := h.Profiles.SetRole(ctx, uid, to)
		metrics.Mutation("admin_set_role", err)
		if err != nil {
			return fmt.Errorf("set role: %w", err)
		}
		h.Audit.RoleChanged(ctx, req, actor, uid, from, to)
		h.Center.Show(actor, fmt.Sprintf("%s is now %s.", name, models.RoleLabel(to)), notify.Success)
		return nil
	}
}

func (h *Handler) tierAction(r *http.Request, actor, uid, name, from, to string) notify.Action {
	req := r.Clone(context.WithoutCancel(r.Context()))
	return func(ctx context.Context) error {
		err := h.Profiles.SetTier(ctx, uid, to)
		metrics.Mutation("admin_set_tier", err)
		if err != nil {
			return fmt.Errorf("set tier: %w", err)
		}
		h.Audit.TierChanged(ctx, req, actor, uid, from, to)
		h.Center.Show(actor, fmt.Sprintf("%s is now %s.", name, models.TierLabel(to)), notify.Success)
		return nil
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{id}/delete                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDeleteUser asks for confirmation and then removes the profile. The
// sign-in identity is kept; signing in again recreates a default profile.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentSnapshot(r).UID()
	uid := chi.URLParam(r, "id")
	if uid == actor {
		formutil.Flash(r, notify.Error, "You cannot delete your own profile.")
		formutil.Redirect(w, r, "/admin/users")
		return
	}
	req := r.Clone(context.WithoutCancel(r.Context()))
	h.Center.ConfirmGated(actor, "Delete this user's profile? This cannot be undone.", guard.AdminGate, func(ctx context.Context) error {
		n, err := h.Profiles.Delete(ctx, uid)
		metrics.Mutation("admin_delete_profile", err)
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if n == 0 {
			h.Center.Show(actor, "That user was already removed.", notify.Info)
			return nil
		}
		h.Audit.ProfileDeleted(ctx, req, actor, uid)
		h.Center.Show(actor, "User profile deleted.", notify.Success)
		return nil
	})
	formutil.Redirect(w, r, "/admin/users")
}
