// internal/app/features/chat/handler.go
package chat

import (
	"net/http"

	chatstore "github.com/chosenvessel/vesselhub/internal/app/store/chat"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Chat    *chatstore.Store
	Limiter *ratelimit.ActionLimiter
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, limiter *ratelimit.ActionLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Chat:    chatstore.New(db),
		Limiter: limiter,
		Log:     logger,
	}
}

type chatData struct {
	formutil.Base
	Channel  string
	Channels []string
	Messages []models.ChatMessage
}

type messageInput struct {
	Text string `validate:"notblank,max=1000" label:"Message"`
}

// Channel reads the channel from the query or form, defaulting to the
// community channel.
func Channel(r *http.Request) string {
	c := query.Get(r, "channel")
	if c == "" {
		c = r.FormValue("channel")
	}
	if c == models.ChannelModerated {
		return c
	}
	return models.ChannelCommunity
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/chat                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	data := chatData{
		Channel:  Channel(r),
		Channels: []string{models.ChannelCommunity, models.ChannelModerated},
	}
	formutil.SetBase(&data.Base, r, "Member Chat", "/dashboard")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "chat history")
	defer cancel()

	src := h.Chat.Feed(data.Channel)
	items, err := src.Query(ctx)
	if err != nil {
		h.Log.Warn("load chat failed", zap.String("channel", data.Channel), zap.Error(err))
	}
	data.Messages = items

	templates.Render(w, r, "chat_room", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/chat/feed                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFeed streams the channel oldest first.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	src := h.Chat.Feed(Channel(r))
	live.ServeSSE(w, r, src, live.Options[models.ChatMessage]{
		Feed: "chat",
		Log:  h.Log,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/chat                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSend appends a message. The page does not insert it locally; the
// feed shows it once the store has it.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	snap := auth.CurrentSnapshot(r)
	channel := Channel(r)
	back := "/dashboard/chat?channel=" + channel

	in := messageInput{Text: htmlsanitize.Text(r.PostFormValue("text"))}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Flash(r, notify.Error, res.First())
		formutil.Redirect(w, r, back)
		return
	}
	if h.Limiter != nil && !h.Limiter.AllowAction("chat", snap.UID(), channel) {
		formutil.Flash(r, notify.Error, "You're sending messages too quickly. Please wait a moment.")
		formutil.Redirect(w, r, back)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Chat.Send(ctx, channel, snap.UID(), snap.DisplayName(), in.Text)
	if err != nil {
		h.Log.Error("send chat failed", zap.String("user_id", snap.UID()), zap.Error(err))
	}
	formutil.Finish(w, r, "chat_send", err, "", "Your message could not be sent.", back)
}
