package library

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/library behind the premium gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLibrary)
	return r
}
