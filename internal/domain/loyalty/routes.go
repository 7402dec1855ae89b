package loyalty

import (
	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin ledger routes. The caller applies auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/adjust", h.AdminAdjust)
	r.Get("/transactions", h.AdminSearch)
	r.Get("/audit/{customer_id}", h.AdminAudit)

	return r
}
