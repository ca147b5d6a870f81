// internal/app/features/profile/handler.go
package profile

import (
	identitystore "github.com/chosenvessel/vesselhub/internal/app/store/identities"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the member's own profile page.
type Handler struct {
	Profiles   *profilestore.Store
	Identities *identitystore.Store
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles:   profilestore.New(db),
		Identities: identitystore.New(db),
		Log:        logger,
	}
}
