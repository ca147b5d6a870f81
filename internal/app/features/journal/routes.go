package journal

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeJournal)
	r.Get("/feed", h.ServeFeed)
	r.Post("/", h.HandleCreate)
	r.Post("/{id}/edit", h.HandleUpdate)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
