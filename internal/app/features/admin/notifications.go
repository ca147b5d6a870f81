// internal/app/features/admin/notifications.go
package admin

import (
	"errors"
	"net/http"
	"strings"

	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
	notificationstore "github.com/chosenvessel/vesselhub/internal/app/store/notifications"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// notificationLimit caps the admin list and its feed.
const notificationLimit = 100

type notificationsData struct {
	formutil.Base
	Notifications []models.Notification
	Severities    []string
}

type notificationInput struct {
	Title    string `validate:"notblank,max=120" label:"Title"`
	Message  string `validate:"notblank,max=2000" label:"Message"`
	Severity string `validate:"oneof=info alert success" label:"Severity"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/notifications                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	data := notificationsData{
		Severities: []string{models.SeverityInfo, models.SeverityAlert, models.SeveritySuccess},
	}
	formutil.SetBase(&data.Base, r, "Notifications", "/admin")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin notifications")
	defer cancel()

	items, err := h.Notifications.Latest(ctx, notificationLimit)
	if err != nil {
		h.Log.Warn("load notifications failed", zap.Error(err))
		data.SetError("Notifications could not be loaded. They will refresh automatically.")
	}
	data.Notifications = items

	templates.Render(w, r, "admin_notifications", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/notifications/feed                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNotificationsFeed(w http.ResponseWriter, r *http.Request) {
	live.ServeSSE(w, r, h.Notifications.Feed(notificationLimit), live.Options[models.Notification]{
		Feed: "admin_notifications",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/notifications                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreateNotification broadcasts a notification to every member's
// dashboard.
func (h *Handler) HandleCreateNotification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	back := "/admin/notifications"
	snap := auth.CurrentSnapshot(r)

	in := notificationInput{
		Title:    htmlsanitize.Text(r.PostFormValue("title")),
		Message:  htmlsanitize.Text(r.PostFormValue("message")),
		Severity: strings.TrimSpace(r.PostFormValue("severity")),
	}
	if in.Severity == "" {
		in.Severity = models.SeverityInfo
	}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "notification_create", res, "", res.First(), back)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.Create(ctx, in.Title, in.Message, in.Severity, snap.DisplayName())
	switch {
	case errors.Is(err, notificationstore.ErrInvalidSeverity):
		formutil.Finish(w, r, "notification_create", err, "", "Choose a listed severity.", back)
		return
	case err != nil:
		h.Log.Error("create notification failed", zap.Error(err))
	default:
		h.Audit.ContentChanged(ctx, r, auditstore.EventNotificationCreated, snap.UID(), "notification", n.ID.Hex(), n.Title)
	}
	formutil.Finish(w, r, "notification_create", err,
		"Notification sent.", "The notification could not be sent. Please try again.", back)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/notifications/{id}/delete                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete notification failed", zap.String("id", oid.Hex()), zap.Error(err))
	} else if n > 0 {
		h.Audit.ContentChanged(ctx, r, auditstore.EventNotificationDeleted, auth.CurrentSnapshot(r).UID(), "notification", oid.Hex(), "")
	}
	formutil.Finish(w, r, "notification_delete", err,
		"Notification deleted.", "The notification could not be deleted. Please try again.", "/admin/notifications")
}
