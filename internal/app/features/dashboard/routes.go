// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes serves the member home. It is mounted at /dashboard behind the
// auth gate; the premium and free leaves are sibling nodes in the route tree.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeHome)
	r.Get("/notifications/feed", h.ServeNotificationsFeed)
	return r
}
