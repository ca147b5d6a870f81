// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"strings"

	notificationstore "github.com/chosenvessel/vesselhub/internal/app/store/notifications"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// latestShown is how many notifications the member home lists.
const latestShown = 5

type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}

type shortcut struct {
	Href    string
	Title   string
	Blurb   string
	Premium bool
}

var shortcuts = []shortcut{
	{"/dashboard/live", "Live Service", "Join our live broadcasts every Sunday and Wednesday.", true},
	{"/dashboard/chat", "Community Chat", "Connect with other members of the Vessel family.", true},
	{"/dashboard/pastor", "Pastor Interaction", "Direct line to pastoral care and guidance.", true},
	{"/dashboard/prayer", "Prayer Wall", "Share a request and pray for one another.", false},
}

type homeData struct {
	viewdata.BaseVM
	Greeting      string
	TierLabel     string
	ShowUpsell    bool
	Shortcuts     []shortcut
	Notifications []models.Notification
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeHome renders the member home. A failed notification lookup only
// hides the list.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	snap := auth.CurrentSnapshot(r)
	data := homeData{
		BaseVM:     viewdata.NewBaseVM(r, "Dashboard", "/"),
		Greeting:   Greeting(snap),
		TierLabel:  models.TierLabel(tierOf(snap)),
		ShowUpsell: !snap.Profile.IsPremium(),
		Shortcuts:  shortcuts,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "dashboard notifications")
	defer cancel()
	list, err := h.Notifications.Latest(ctx, latestShown)
	if err != nil {
		h.Log.Warn("load notifications failed", zap.Error(err))
	}
	data.Notifications = list

	templates.Render(w, r, "dashboard_home", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/notifications/feed                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNotificationsFeed(w http.ResponseWriter, r *http.Request) {
	live.ServeSSE(w, r, h.Notifications.Feed(20), live.Options[models.Notification]{
		Feed: "notifications",
		Log:  h.Log,
	})
}

// Greeting names the member by display name, falling back to the part of
// the email before the @.
func Greeting(s auth.Snapshot) string {
	if s.Profile != nil && strings.TrimSpace(s.Profile.DisplayName) != "" {
		return "Welcome back, " + s.Profile.DisplayName
	}
	if s.Identity != nil {
		if s.Identity.DisplayName != "" {
			return "Welcome back, " + s.Identity.DisplayName
		}
		if local, _, ok := strings.Cut(s.Identity.Email, "@"); ok && local != "" {
			return "Welcome back, " + local
		}
	}
	return "Welcome back"
}

func tierOf(s auth.Snapshot) string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Tier
}
