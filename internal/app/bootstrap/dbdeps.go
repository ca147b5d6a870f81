// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/mediastore"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/payments"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/app/system/tasks"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// WAFFLE passes DBDeps by value to every hook, so the services built in
// Startup hang off a pointer allocated in ConnectDB.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Services *Services
}

// Services are the process-wide collaborators shared by feature handlers.
type Services struct {
	Center   *notify.Center
	Audit    *auditlog.Logger
	Payments payments.Verifier
	Media    mediastore.Store
	Uploader *mediastore.Uploader

	LoginLimiter  *ratelimit.LoginLimiter
	PrayerLimiter *ratelimit.ActionLimiter
	ChatLimiter   *ratelimit.ActionLimiter

	Scheduler *tasks.Scheduler
}
