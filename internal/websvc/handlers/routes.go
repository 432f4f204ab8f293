package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/health", h.HealthHandler)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/cards", func(r chi.Router) {
		r.Post("/", h.CreateCard)
		r.Post("/{id}", h.UpdateCard)
		r.Post("/{id}/delete", h.DeleteCard)
	})
}
