package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/middleware"
	"github.com/orda/orda-api/internal/pkg/response"
)

// Handler handles notification HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates notification handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /notifications
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	limit, offset := 20, 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	notifications, err := h.svc.List(r.Context(), customerID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	unread, err := h.svc.UnreadCount(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*NotificationResponse, len(notifications))
	for i := range notifications {
		items[i] = ToNotificationResponse(&notifications[i])
	}

	response.OK(w, map[string]interface{}{
		"items":  items,
		"unread": unread,
	})
}

// MarkRead handles POST /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	if err := h.svc.MarkRead(r.Context(), id, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Notification not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}
