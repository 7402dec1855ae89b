package voucher

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/domain/loyalty"
	"github.com/orda/orda-api/internal/domain/reward"
	"github.com/orda/orda-api/internal/middleware"
	"github.com/orda/orda-api/internal/pkg/response"
	"github.com/orda/orda-api/internal/pkg/validator"
)

// Handler handles voucher HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates voucher handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Redeem handles POST /loyalty/rewards/redeem
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rewardID, err := uuid.Parse(req.RewardID)
	if err != nil {
		response.BadRequest(w, "Invalid reward ID")
		return
	}

	receipt, err := h.svc.Redeem(r.Context(), customerID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, reward.ErrNotFound):
			response.NotFound(w, "Reward not found")
		case errors.Is(err, loyalty.ErrCustomerNotFound):
			response.NotFound(w, "Customer not found")
		case errors.Is(err, reward.ErrInsufficientPoints),
			errors.Is(err, loyalty.ErrInsufficientBalance):
			response.UnprocessableEntity(w, "INSUFFICIENT_POINTS", err.Error())
		case errors.Is(err, reward.ErrTierTooLow):
			response.UnprocessableEntity(w, "TIER_TOO_LOW", err.Error())
		case errors.Is(err, reward.ErrOutOfStock):
			response.UnprocessableEntity(w, "OUT_OF_STOCK", err.Error())
		case errors.Is(err, reward.ErrNotYetValid):
			response.UnprocessableEntity(w, "NOT_YET_VALID", err.Error())
		case errors.Is(err, reward.ErrExpired):
			response.UnprocessableEntity(w, "EXPIRED", err.Error())
		case errors.Is(err, reward.ErrInactive):
			response.UnprocessableEntity(w, "INACTIVE", err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, receipt)
}

// ListMine handles GET /loyalty/vouchers
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := Status(raw)
		if !s.IsValid() {
			response.BadRequest(w, "Invalid voucher status")
			return
		}
		status = &s
	}

	vouchers, err := h.svc.ListMine(r.Context(), customerID, status)
	if err != nil {
		response.InternalError(w)
		return
	}

	now := time.Now()
	items := make([]*VoucherResponse, len(vouchers))
	for i := range vouchers {
		items[i] = ToVoucherResponse(&vouchers[i], now)
	}

	response.OK(w, map[string]interface{}{
		"items": items,
	})
}

// MarkUsed handles POST /admin/vouchers/{code}/use. Checkout integration
// consumes a voucher through this endpoint, reporting the consuming order.
func (h *Handler) MarkUsed(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "Missing voucher code")
		return
	}

	var req ConsumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	v, err := h.svc.MarkUsed(r.Context(), code, orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Voucher not found")
		case errors.Is(err, ErrNotUsable):
			response.UnprocessableEntity(w, "VOUCHER_NOT_USABLE", "Voucher is used or expired")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToVoucherResponse(v, time.Now()))
}
