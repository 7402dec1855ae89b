package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/pkg/response"
	"github.com/orda/orda-api/internal/pkg/validator"
)

// Handler handles order HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates order handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /admin/orders
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	o, err := h.svc.Create(r.Context(), req.CustomerEmail, req.Total)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, ToOrderResponse(o))
}

// Get handles GET /admin/orders/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	o, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Order not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToOrderResponse(o))
}

// UpdateStatus handles PATCH /admin/orders/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, "Unknown order status")
		case errors.Is(err, ErrInvalidTransition):
			response.UnprocessableEntity(w, "INVALID_TRANSITION", err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToOrderResponse(o))
}
