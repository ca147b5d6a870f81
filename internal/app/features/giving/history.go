// internal/app/features/giving/history.go
package giving

import (
	"net/http"

	donationstore "github.com/chosenvessel/vesselhub/internal/app/store/donations"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type historyData struct {
	formutil.Base
	Donations []models.Donation
	Summary   donationstore.Summary
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/giving/history                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	var data historyData
	formutil.SetBase(&data.Base, r, "Giving History", "/dashboard/giving")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "giving history")
	defer cancel()

	src, fb := h.Donations.HistoryFeed(data.UserID)
	items, err := src.Query(ctx)
	if err != nil {
		h.Log.Warn("load giving history failed", zap.String("user_id", data.UserID), zap.Error(err))
		data.SetError("Your giving history could not be loaded. It will refresh automatically.")
	}
	data.Donations = fb.Apply(items)
	data.Summary = donationstore.Summarize(data.Donations)

	templates.Render(w, r, "giving_history", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/giving/history/feed                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHistoryFeed(w http.ResponseWriter, r *http.Request) {
	src, fb := h.Donations.HistoryFeed(auth.CurrentSnapshot(r).UID())
	live.ServeSSE(w, r, src, live.Options[models.Donation]{
		Feed:     "giving_history",
		Fallback: fb,
		Log:      h.Log,
	})
}
