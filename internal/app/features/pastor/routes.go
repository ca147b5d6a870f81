package pastor

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/pastor behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeInbox)
	r.Get("/feed", h.ServeFeed)
	r.Post("/", h.HandleCreate)
	r.Post("/{id}/reply", h.HandleReply)
	return r
}
