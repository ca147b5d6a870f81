package livestream

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/live behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLive)
	r.Get("/feed", h.ServeFeed)
	return r
}
