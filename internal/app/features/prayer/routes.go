package prayer

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/prayer.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeWall)
	r.Get("/feed", h.ServeFeed)
	r.Post("/", h.HandleCreate)
	r.Post("/{id}/pray", h.HandlePray)
	return r
}
