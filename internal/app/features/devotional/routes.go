package devotional

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/devotional.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDailyBread)
	return r
}
