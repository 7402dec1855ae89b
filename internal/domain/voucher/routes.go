package voucher

import (
	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin voucher routes. The caller applies auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{code}/use", h.MarkUsed)

	return r
}
