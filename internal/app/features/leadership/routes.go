// internal/app/features/leadership/routes.go
package leadership

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLeadership)
	r.Get("/bishop-sapp", h.ServeBishop)
	return r
}
