package home

import (
	"net/http"
	"time"

	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// upcomingLimit is how many events the landing page previews.
const upcomingLimit = 3

// Handler holds dependencies needed to serve the landing page.
type Handler struct {
	Content *contentstore.Store
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Content: contentstore.New(db),
		Log:     logger,
		Now:     time.Now,
	}
}

type pageData struct {
	viewdata.BaseVM
	LatestSermon *models.Sermon
	Upcoming     []models.Event
	GiveTypes    []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "landing content")
	defer cancel()

	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, "Welcome", "/"),
		GiveTypes: models.DonationTypes,
	}

	// The landing page renders without previews rather than failing.
	if sermons, err := h.Content.Sermons(ctx, 1); err != nil {
		h.Log.Warn("landing: load sermons", zap.Error(err))
	} else if len(sermons) > 0 {
		data.LatestSermon = &sermons[0]
	}

	if events, err := h.Content.Events(ctx, ""); err != nil {
		h.Log.Warn("landing: load events", zap.Error(err))
	} else {
		data.Upcoming = Upcoming(events, h.Now().Format("2006-01-02"), upcomingLimit)
	}

	templates.Render(w, r, "home", data)
}

// Upcoming returns up to limit events dated today or later. events must be
// in ascending date order.
func Upcoming(events []models.Event, today string, limit int) []models.Event {
	out := make([]models.Event, 0, limit)
	for _, e := range events {
		if e.Date < today {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}
