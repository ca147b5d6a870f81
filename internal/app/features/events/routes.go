package events

import "github.com/go-chi/chi/v5"

// Routes is mounted at /dashboard/events.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeCalendar)
	return r
}
