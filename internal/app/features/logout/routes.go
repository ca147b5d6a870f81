// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	// POST only so a cross-site link cannot sign a member out; CSRF covers the form.
	r.Post("/", h.HandleLogout)
	return r
}
