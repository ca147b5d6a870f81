// internal/app/features/events/handler.go
package events

import (
	"net/http"

	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Content *contentstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Content: contentstore.New(db), Log: logger}
}

type pageData struct {
	viewdata.BaseVM
	Category   string
	Categories []string
	Events     []models.Event
	LoadError  bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/events?category=                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCalendar lists events by date ascending, optionally for one category.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	category := query.Get(r, "category")
	if !models.Contains(models.EventCategories, category) {
		category = ""
	}
	data := pageData{
		BaseVM:     viewdata.NewBaseVM(r, "Events", "/dashboard"),
		Category:   category,
		Categories: models.EventCategories,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "events calendar")
	defer cancel()

	list, err := h.Content.Events(ctx, category)
	if err != nil {
		h.Log.Warn("load events failed", zap.Error(err))
		data.LoadError = true
	}
	data.Events = list

	templates.Render(w, r, "events", data)
}
