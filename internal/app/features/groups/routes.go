package groups

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/groups behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/{id}/join", h.HandleJoin)
	r.Post("/{id}/leave", h.HandleLeave)
	r.Get("/announcements", h.ServeAnnouncements)
	r.Get("/announcements/feed", h.ServeAnnouncementsFeed)
	return r
}
