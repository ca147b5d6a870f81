package chat

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/chat behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeChat)
	r.Get("/feed", h.ServeFeed)
	r.Post("/", h.HandleSend)
	return r
}
