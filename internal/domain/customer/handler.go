package customer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/middleware"
	"github.com/orda/orda-api/internal/pkg/jwt"
	"github.com/orda/orda-api/internal/pkg/response"
	"github.com/orda/orda-api/internal/pkg/validator"
)

// Handler handles customer HTTP requests
type Handler struct {
	svc        *Service
	jwtService *jwt.Service
}

// NewHandler creates customer handler
func NewHandler(svc *Service, jwtService *jwt.Service) *Handler {
	return &Handler{svc: svc, jwtService: jwtService}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			response.Conflict(w, "Email already registered")
			return
		}
		response.InternalError(w)
		return
	}

	token, err := h.jwtService.GenerateAccessToken(c.ID, "customer")
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, &AuthResponse{
		AccessToken: token,
		Customer:    ToCustomerResponse(c),
	})
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.InternalError(w)
		return
	}

	token, err := h.jwtService.GenerateAccessToken(c.ID, "customer")
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, &AuthResponse{
		AccessToken: token,
		Customer:    ToCustomerResponse(c),
	})
}

// Me handles GET /customers/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	if customerID == uuid.Nil {
		response.Unauthorized(w, "Missing customer identity")
		return
	}

	c, err := h.svc.GetByID(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Customer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToCustomerResponse(c))
}
