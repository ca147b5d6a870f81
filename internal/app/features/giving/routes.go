package giving

import "github.com/go-chi/chi/v5"

// PublicRoutes is mounted at /give.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePublicGive)
	r.Post("/capture", h.HandlePublicCapture)
	return r
}

// Routes is mounted at /dashboard/giving.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGive)
	r.Post("/capture", h.HandleCapture)
	r.Get("/history", h.ServeHistory)
	r.Get("/history/feed", h.ServeHistoryFeed)
	return r
}
