// internal/app/features/groups/list.go
package groups

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// groupCard is one group as the viewer sees it.
type groupCard struct {
	models.Group
	Joined      bool
	MemberCount int
}

func cardFor(g models.Group, uid string) groupCard {
	return groupCard{Group: g, Joined: g.HasMember(uid), MemberCount: len(g.Members)}
}

type listData struct {
	formutil.Base
	Groups []cardView
	Joined int
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/groups                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var data listData
	formutil.SetBase(&data.Base, r, "Groups", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups list")
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.Log.Warn("list groups failed", zap.Error(err))
		data.SetError("Groups could not be loaded. Please try again.")
	}
	for _, g := range groups {
		c := cardFor(g, data.UserID)
		if c.Joined {
			data.Joined++
		}
		data.Groups = append(data.Groups, cardView{groupCard: c, CSRFToken: data.CSRFToken})
	}

	templates.Render(w, r, "groups_list", data)
}
