package admin

import "github.com/go-chi/chi/v5"

// Routes is mounted at /admin behind the admin gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeOverview)

	r.Get("/users", h.ServeUsers)
	r.Post("/users/{id}/role", h.HandleToggleRole)
	r.Post("/users/{id}/tier", h.HandleToggleTier)
	r.Post("/users/{id}/delete", h.HandleDeleteUser)

	r.Get("/content", h.ServeContent)
	r.Post("/content/{kind}", h.HandleSave)
	r.Post("/content/{kind}/{id}", h.HandleSave)
	r.Post("/content/{kind}/{id}/delete", h.HandleDeleteContent)
	r.Post("/stream", h.HandleStream)

	r.Get("/prayers", h.ServePrayers)
	r.Get("/prayers/feed", h.ServePrayersFeed)
	r.Post("/prayers/{id}/delete", h.HandleDeletePrayer)

	r.Get("/chat", h.ServeChat)
	r.Get("/chat/feed", h.ServeChatFeed)
	r.Post("/chat/{id}/delete", h.HandleDeleteMessage)

	r.Get("/notifications", h.ServeNotifications)
	r.Get("/notifications/feed", h.ServeNotificationsFeed)
	r.Post("/notifications", h.HandleCreateNotification)
	r.Post("/notifications/{id}/delete", h.HandleDeleteNotification)

	r.Get("/pastor", h.ServeInbox)
	r.Get("/pastor/feed", h.ServeInboxFeed)
	r.Post("/pastor/{id}/reply", h.HandleReply)
	r.Post("/pastor/{id}/delete", h.HandleDeleteThread)

	r.Get("/questions", h.ServeQuestions)
	r.Post("/questions/{id}/answer", h.HandleAnswer)
	r.Post("/questions/{id}/delete", h.HandleDeleteQuestion)

	r.Get("/audit", h.ServeAudit)
	return r
}
