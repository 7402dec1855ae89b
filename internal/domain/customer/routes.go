package customer

import (
	"github.com/go-chi/chi/v5"
)

// AuthRoutes returns public authentication routes.
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	return r
}
