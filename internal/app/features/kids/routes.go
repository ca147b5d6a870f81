package kids

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/kids.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeKids)
	return r
}
