package subscribe

import "github.com/go-chi/chi/v5"

// Routes is mounted at /subscribe for signed-in members.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSubscribe)
	r.Post("/capture", h.HandleCapture)
	return r
}
