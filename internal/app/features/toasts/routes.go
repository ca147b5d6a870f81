package toasts

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /notify.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/feed", h.ServeFeed)
	r.Post("/dismiss/{id}", h.HandleDismiss)
	r.Post("/confirm/{token}", h.HandleConfirm)
	return r
}
