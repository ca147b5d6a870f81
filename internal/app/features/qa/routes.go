package qa

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/qa behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeQA)
	r.Get("/feed", h.ServeFeed)
	r.Post("/", h.HandleSubmit)
	return r
}
