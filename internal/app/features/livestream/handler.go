// internal/app/features/livestream/handler.go
package livestream

import (
	"net/http"

	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	streamstore "github.com/chosenvessel/vesselhub/internal/app/store/streamconfig"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// pastShown is how many earlier sermons appear under the player.
const pastShown = 6

type Handler struct {
	Stream  *streamstore.Store
	Content *contentstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Stream:  streamstore.New(db),
		Content: contentstore.New(db),
		Log:     logger,
	}
}

type pageData struct {
	viewdata.BaseVM
	Config   models.StreamConfig
	EmbedURL string
	Sermons  []models.Sermon
}

// EmbedURL returns the player URL for a YouTube video id, or "" when no
// video is configured.
func EmbedURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + videoID
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/live                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	data := pageData{BaseVM: viewdata.NewBaseVM(r, "Live Stream", "/dashboard")}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "live stream page")
	defer cancel()

	cfg, err := h.Stream.Get(ctx)
	if err != nil {
		h.Log.Warn("load stream config failed", zap.Error(err))
	}
	data.Config = cfg
	data.EmbedURL = EmbedURL(cfg.VideoID)

	sermons, err := h.Content.Sermons(ctx, pastShown)
	if err != nil {
		h.Log.Warn("load sermons failed", zap.Error(err))
	}
	data.Sermons = sermons

	templates.Render(w, r, "livestream", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/live/feed                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	live.ServeSSE(w, r, h.Stream.Feed(), live.Options[models.StreamConfig]{
		Feed: "stream_config",
		Log:  h.Log,
	})
}
