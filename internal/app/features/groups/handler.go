// internal/app/features/groups/handler.go
package groups

import (
	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	groupstore "github.com/chosenvessel/vesselhub/internal/app/store/groups"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the community groups directory, membership changes and
// the announcements of the viewer's groups.
type Handler struct {
	Groups  *groupstore.Store
	Content *contentstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:  groupstore.New(db),
		Content: contentstore.New(db),
		Log:     logger,
	}
}
