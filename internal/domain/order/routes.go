package order

import (
	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin order routes. The caller applies auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)

	return r
}
