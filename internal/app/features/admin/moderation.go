// internal/app/features/admin/moderation.go
package admin

import (
	"net/http"

	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type prayersData struct {
	formutil.Base
	Requests []models.PrayerRequest
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/prayers                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// ServePrayers lists every request, private ones included.
func (h *Handler) ServePrayers(w http.ResponseWriter, r *http.Request) {
	var data prayersData
	formutil.SetBase(&data.Base, r, "Prayer Requests", "/admin")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin prayers")
	defer cancel()

	items, err := h.Prayers.AdminFeed().Query(ctx)
	if err != nil {
		h.Log.Warn("load prayers failed", zap.Error(err))
		data.SetError("Prayer requests could not be loaded. They will refresh automatically.")
	}
	data.Requests = items

	templates.Render(w, r, "admin_prayers", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/prayers/feed                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePrayersFeed(w http.ResponseWriter, r *http.Request) {
	live.ServeSSE(w, r, h.Prayers.AdminFeed(), live.Options[models.PrayerRequest]{
		Feed: "admin_prayers",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/prayers/{id}/delete                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeletePrayer(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	p, gerr := h.Prayers.Get(ctx, oid)
	_, err = h.Prayers.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete prayer failed", zap.String("id", oid.Hex()), zap.Error(err))
	} else if gerr == nil {
		h.Audit.Moderated(ctx, r, auditstore.EventPrayerDeleted, auth.CurrentSnapshot(r).UID(), p.AuthorID, oid.Hex())
	}
	formutil.Finish(w, r, "prayer_delete", err,
		"Prayer request removed.", "The request could not be removed. Please try again.", "/admin/prayers")
}

type chatData struct {
	formutil.Base
	Channel  string
	Channels []string
	Messages []models.ChatMessage
}

func channelParam(r *http.Request) string {
	if c := query.Get(r, "channel"); c == models.ChannelModerated {
		return c
	}
	return models.ChannelCommunity
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/chat                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeChat shows one channel (?channel=, default community) for
// moderation.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	data := chatData{
		Channel:  channelParam(r),
		Channels: []string{models.ChannelCommunity, models.ChannelModerated},
	}
	formutil.SetBase(&data.Base, r, "Chat Moderation", "/admin")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin chat")
	defer cancel()

	src := h.Chat.Feed(data.Channel)
	items, err := src.Query(ctx)
	if err != nil {
		h.Log.Warn("load chat failed", zap.Error(err))
		data.SetError("Messages could not be loaded. They will refresh automatically.")
	}
	data.Messages = items

	templates.Render(w, r, "admin_chat", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/chat/feed                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeChatFeed(w http.ResponseWriter, r *http.Request) {
	src := h.Chat.Feed(channelParam(r))
	live.ServeSSE(w, r, src, live.Options[models.ChatMessage]{
		Feed: "admin_chat",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/chat/{id}/delete                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Chat.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete chat message failed", zap.String("id", oid.Hex()), zap.Error(err))
	} else if n > 0 {
		h.Audit.Moderated(ctx, r, auditstore.EventChatMessageDeleted, auth.CurrentSnapshot(r).UID(), r.PostFormValue("author_id"), oid.Hex())
	}
	formutil.Finish(w, r, "chat_delete", err,
		"Message removed.", "The message could not be removed. Please try again.",
		"/admin/chat?channel="+channelParam(r))
}
