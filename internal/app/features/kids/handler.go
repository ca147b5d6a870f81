// internal/app/features/kids/handler.go
package kids

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
	AgeGroup  string
	AgeGroups []string
	Items     []models.KidResource
	LoadError bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/kids?age=                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeKids(w http.ResponseWriter, r *http.Request) {
	age := query.Get(r, "age")
	if !models.Contains(models.KidAgeGroups, age) {
		age = ""
	}
	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, "Kids Kingdom", "/dashboard"),
		AgeGroup:  age,
		AgeGroups: models.KidAgeGroups,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "kids kingdom")
	defer cancel()

	items, err := h.Content.Kids(ctx, age)
	if err != nil {
		h.Log.Warn("load kids content failed", zap.Error(err))
		data.LoadError = true
	}
	data.Items = items

	templates.Render(w, r, "kids", data)
}
