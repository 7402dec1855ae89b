package loyalty

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/middleware"
	"github.com/orda/orda-api/internal/pkg/response"
	"github.com/orda/orda-api/internal/pkg/validator"
)

// Handler handles loyalty HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates loyalty handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard handles GET /loyalty/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	dashboard, err := h.svc.Dashboard(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			response.NotFound(w, "Customer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, dashboard)
}

// History handles GET /loyalty/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	filters := HistoryFilters{Limit: 20}

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			filters.Limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			filters.Offset = v
		}
	}
	if t := r.URL.Query().Get("type"); t != "" {
		et := EntryType(t)
		if !et.IsValid() {
			response.BadRequest(w, "Invalid transaction type")
			return
		}
		filters.Type = &et
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if v, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &v
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if v, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &v
		}
	}

	entries, err := h.svc.History(r.Context(), customerID, filters)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*EntryResponse, len(entries))
	for i := range entries {
		items[i] = ToEntryResponse(&entries[i])
	}

	response.OK(w, map[string]interface{}{
		"items": items,
	})
}

// AdminAdjust handles POST /admin/loyalty/adjust
func (h *Handler) AdminAdjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	adminID := middleware.GetCustomerID(r.Context())

	entry, err := h.svc.AdminAdjust(r.Context(), customerID, req.Points, req.Reason, adminID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomerNotFound):
			response.NotFound(w, "Customer not found")
		case errors.Is(err, ErrInsufficientBalance):
			response.UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "Adjustment would drive balance below zero")
		case errors.Is(err, ErrInvalidPoints):
			response.BadRequest(w, "Points must be non-zero")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ToEntryResponse(entry))
}

// AdminSearch handles GET /admin/loyalty/transactions
func (h *Handler) AdminSearch(w http.ResponseWriter, r *http.Request) {
	filters := SearchFilters{Limit: 50}

	if c := r.URL.Query().Get("customer_id"); c != "" {
		id, err := uuid.Parse(c)
		if err != nil {
			response.BadRequest(w, "Invalid customer ID")
			return
		}
		filters.CustomerID = &id
	}
	if t := r.URL.Query().Get("type"); t != "" {
		et := EntryType(t)
		if !et.IsValid() {
			response.BadRequest(w, "Invalid transaction type")
			return
		}
		filters.Type = &et
	}
	if o := r.URL.Query().Get("order_id"); o != "" {
		if id, err := uuid.Parse(o); err == nil {
			filters.OrderID = &id
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			filters.Limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			filters.Offset = v
		}
	}

	entries, err := h.svc.Search(r.Context(), filters)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*EntryResponse, len(entries))
	for i := range entries {
		items[i] = ToEntryResponse(&entries[i])
	}

	response.OK(w, map[string]interface{}{
		"items": items,
	})
}

// AdminAudit handles GET /admin/loyalty/audit/{customer_id}
func (h *Handler) AdminAudit(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customer_id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	audit, err := h.svc.Audit(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			response.NotFound(w, "Customer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, audit)
}
