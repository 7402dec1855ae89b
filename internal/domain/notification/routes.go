package notification

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns customer notification feed routes. The caller applies auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/{id}/read", h.MarkRead)

	return r
}
