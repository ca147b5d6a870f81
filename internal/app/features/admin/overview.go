// internal/app/features/admin/overview.go
package admin

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type overviewData struct {
	formutil.Base
	Users   int64
	Prayers int64
	Events  int64
	Stream  models.StreamConfig
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeOverview shows headline counts. A failed count shows as zero and is
// logged; the page still renders.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	var data overviewData
	formutil.SetBase(&data.Base, r, "Admin", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin overview")
	defer cancel()

	var err error
	if data.Users, err = h.Profiles.Count(ctx); err != nil {
		h.Log.Warn("count users failed", zap.Error(err))
	}
	if data.Prayers, err = h.Prayers.Count(ctx); err != nil {
		h.Log.Warn("count prayers failed", zap.Error(err))
	}
	if data.Events, err = h.Content.Count(ctx, models.KindEvent); err != nil {
		h.Log.Warn("count events failed", zap.Error(err))
	}
	if data.Stream, err = h.Stream.Get(ctx); err != nil {
		h.Log.Warn("load stream config failed", zap.Error(err))
	}

	templates.Render(w, r, "admin_overview", data)
}
