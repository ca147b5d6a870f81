// internal/app/features/admin/handler.go
package admin

import (
	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
	chatstore "github.com/chosenvessel/vesselhub/internal/app/store/chat"
	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	groupstore "github.com/chosenvessel/vesselhub/internal/app/store/groups"
	notificationstore "github.com/chosenvessel/vesselhub/internal/app/store/notifications"
	prayerstore "github.com/chosenvessel/vesselhub/internal/app/store/prayers"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	questionstore "github.com/chosenvessel/vesselhub/internal/app/store/questions"
	streamstore "github.com/chosenvessel/vesselhub/internal/app/store/streamconfig"
	threadstore "github.com/chosenvessel/vesselhub/internal/app/store/threads"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/mediastore"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin console. Every route is behind the admin gate.
type Handler struct {
	Profiles      *profilestore.Store
	Prayers       *prayerstore.Store
	Chat          *chatstore.Store
	Notifications *notificationstore.Store
	Threads       *threadstore.Store
	Questions     *questionstore.Store
	Content       *contentstore.Store
	Groups        *groupstore.Store
	Stream        *streamstore.Store
	Events        *auditstore.Store

	Uploader *mediastore.Uploader
	Center   *notify.Center
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler wires the console. uploader may be nil, in which case file
// fields are ignored and only URLs are accepted.
func NewHandler(db *mongo.Database, uploader *mediastore.Uploader, center *notify.Center, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles:      profilestore.New(db),
		Prayers:       prayerstore.New(db),
		Chat:          chatstore.New(db),
		Notifications: notificationstore.New(db),
		Threads:       threadstore.New(db),
		Questions:     questionstore.New(db),
		Content:       contentstore.New(db),
		Groups:        groupstore.New(db),
		Stream:        streamstore.New(db),
		Events:        auditstore.New(db),
		Uploader:      uploader,
		Center:        center,
		Audit:         audit,
		Log:           logger,
	}
}
