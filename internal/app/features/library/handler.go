// internal/app/features/library/handler.go
package library

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
	Search    string
	Type      string
	Types     []string
	Resources []models.LibraryResource
	LoadError bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/library?q=&type=                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLibrary lists resources newest first, optionally searched by title
// or author and filtered by type. Unknown types show everything.
func (h *Handler) ServeLibrary(w http.ResponseWriter, r *http.Request) {
	q := contentstore.LibraryQuery{Search: query.Get(r, "q")}
	if t := query.Get(r, "type"); models.Contains(models.ResourceTypes, t) {
		q.ResourceType = t
	}

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Resource Library", "/dashboard"),
		Search: q.Search,
		Type:   q.ResourceType,
		Types:  models.ResourceTypes,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "resource library")
	defer cancel()

	items, err := h.Content.Library(ctx, q)
	if err != nil {
		h.Log.Warn("load library failed", zap.Error(err))
		data.LoadError = true
	}
	data.Resources = items

	templates.Render(w, r, "library", data)
}
