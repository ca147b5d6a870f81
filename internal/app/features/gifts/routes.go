package gifts

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/gifts behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAssessment)
	r.Post("/", h.HandleSubmit)
	return r
}
