// internal/app/features/groups/announcements.go
package groups

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type announcementsData struct {
	formutil.Base
	Announcements []models.GroupAnnouncement
	GroupNames    map[string]string
	HasGroups     bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/groups/announcements                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeAnnouncements lists announcements for the groups the viewer belongs
// to; other groups' announcements never reach the page.
func (h *Handler) ServeAnnouncements(w http.ResponseWriter, r *http.Request) {
	data := announcementsData{GroupNames: map[string]string{}}
	formutil.SetBase(&data.Base, r, "Group Announcements", "/dashboard/groups")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group announcements")
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.Log.Warn("list groups failed", zap.Error(err))
	}
	var mine []string
	for _, g := range groups {
		data.GroupNames[g.ID] = g.Name
		if g.HasMember(data.UserID) {
			mine = append(mine, g.ID)
		}
	}
	data.HasGroups = len(mine) > 0

	src, fb := h.Content.AnnouncementFeed(mine)
	items, err := src.Query(ctx)
	if err != nil {
		h.Log.Warn("load announcements failed", zap.Error(err))
		data.SetError("Announcements could not be loaded. They will refresh automatically.")
	}
	data.Announcements = fb.Apply(items)

	templates.Render(w, r, "group_announcements", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/groups/announcements/feed                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeAnnouncementsFeed resolves the viewer's groups once when the stream
// opens. Joining a group takes effect on the next page load.
func (h *Handler) ServeAnnouncementsFeed(w http.ResponseWriter, r *http.Request) {
	uid := auth.CurrentSnapshot(r).UID()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group membership")
	mine, err := h.Groups.MemberOf(ctx, uid)
	cancel()
	if err != nil {
		h.Log.Warn("resolve group membership failed", zap.String("user_id", uid), zap.Error(err))
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	src, fb := h.Content.AnnouncementFeed(mine)
	live.ServeSSE(w, r, src, live.Options[models.GroupAnnouncement]{
		Feed:     "group_announcements",
		Fallback: fb,
		Log:      h.Log,
	})
}
