package reward

import (
	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin catalog routes. The caller applies auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.AdminList)
	r.Post("/", h.AdminCreate)
	r.Get("/{id}", h.AdminGet)
	r.Put("/{id}", h.AdminUpdate)
	r.Delete("/{id}", h.AdminDelete)

	return r
}
