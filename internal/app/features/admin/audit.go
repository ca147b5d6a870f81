// internal/app/features/admin/audit.go
package admin

import (
	"net/http"

	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/paging"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type auditData struct {
	formutil.Base
	Category   string
	Categories []string
	Events     []auditstore.Event
	Range      paging.Range
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/audit                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeAudit pages through recorded events, newest first, optionally for a
// single ?category=.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	data := auditData{
		Categories: []string{auditstore.CategoryAuth, auditstore.CategoryAdmin, auditstore.CategoryGiving},
	}
	formutil.SetBase(&data.Base, r, "Audit Log", "/admin")
	for _, c := range data.Categories {
		if c == query.Get(r, "category") {
			data.Category = c
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin audit")
	defer cancel()

	start := paging.ParseStart(r)
	events, err := h.Events.Query(ctx, auditstore.QueryFilter{
		Category: data.Category,
		Limit:    paging.LimitPlusOne(),
		Offset:   paging.Skip(start),
	})
	if err != nil {
		h.Log.Error("query audit events failed", zap.Error(err))
		data.SetError("Audit events could not be loaded.")
	}
	hasNext := paging.TrimPage(&events)
	data.Events = events
	data.Range = paging.ComputeRange(start, len(events), hasNext)

	templates.Render(w, r, "admin_audit", data)
}
