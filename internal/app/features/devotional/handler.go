// internal/app/features/devotional/handler.go
package devotional

import (
	"html/template"
	"net/http"
	"time"

	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// archiveShown is how many earlier devotionals are listed.
const archiveShown = 7

type Handler struct {
	Content *contentstore.Store
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Content: contentstore.New(db), Log: logger, Now: time.Now}
}

type pageData struct {
	viewdata.BaseVM
	Found   bool
	IsToday bool
	Today   models.Devotional
	Body    template.HTML
	Archive []models.Devotional
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/devotional                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDailyBread shows today's devotional, or the latest one when nothing
// is dated today.
func (h *Handler) ServeDailyBread(w http.ResponseWriter, r *http.Request) {
	data := pageData{BaseVM: viewdata.NewBaseVM(r, "Daily Bread", "/dashboard")}
	today := h.Now().Format("2006-01-02")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "daily bread")
	defer cancel()

	d, found, err := h.Content.DailyBread(ctx, today)
	if err != nil {
		h.Log.Warn("load daily bread failed", zap.Error(err))
	}
	data.Found = found
	data.Today = d
	data.IsToday = found && d.Date == today
	data.Body = htmlsanitize.PrepareForDisplay(d.Body)

	archive, err := h.Content.Devotionals(ctx, archiveShown+1)
	if err != nil {
		h.Log.Warn("load devotionals failed", zap.Error(err))
	}
	data.Archive = Archive(archive, d.ID.Hex(), archiveShown)

	templates.Render(w, r, "devotional", data)
}

// Archive drops the featured devotional from list and keeps at most limit.
func Archive(list []models.Devotional, featuredID string, limit int) []models.Devotional {
	out := make([]models.Devotional, 0, limit)
	for _, d := range list {
		if d.ID.Hex() == featuredID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, d)
	}
	return out
}
