package reward

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/middleware"
	"github.com/orda/orda-api/internal/pkg/response"
	"github.com/orda/orda-api/internal/pkg/validator"
)

// Handler handles reward HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates reward handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Catalog handles GET /loyalty/rewards
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())

	items, err := h.svc.Catalog(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": items,
	})
}

// AdminList handles GET /admin/rewards
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.svc.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*RewardResponse, len(rewards))
	for i := range rewards {
		items[i] = ToRewardResponse(&rewards[i])
	}

	response.OK(w, map[string]interface{}{
		"items": items,
	})
}

// AdminGet handles GET /admin/rewards/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reward ID")
		return
	}

	rw, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Reward not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToRewardResponse(rw))
}

// AdminCreate handles POST /admin/rewards
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rw, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, ToRewardResponse(rw))
}

// AdminUpdate handles PUT /admin/rewards/{id}
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reward ID")
		return
	}

	var req UpdateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rw, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Reward not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToRewardResponse(rw))
}

// AdminDelete handles DELETE /admin/rewards/{id}
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reward ID")
		return
	}

	deleted, err := h.svc.Remove(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Reward not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"deleted":     deleted,
		"deactivated": !deleted,
	})
}
