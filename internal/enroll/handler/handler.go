// Package handler exposes the unauthenticated enrollment endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shipcertify/internal/enroll/models"
	"shipcertify/internal/enroll/service"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/httputil"
	"shipcertify/pkg/requestcontext"
)

// Service defines the interface for enrollment operations.
type Service interface {
	Register(ctx context.Context, username, password, organization, partyID string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register registers the enrollment routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
	PartyID      string `json:"partyId"`
}

// registerResponse omits the password hash from the stored record.
type registerResponse struct {
	Username     string `json:"username"`
	Organization string `json:"organization"`
	PartyID      string `json:"partyId"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.service.Register(ctx, req.Username, req.Password, req.Organization, req.PartyID)
	if err != nil {
		h.writeServiceError(ctx, w, "register user", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, registerResponse{
		Username:     user.Username,
		Organization: string(user.Organization),
		PartyID:      user.PartyID,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.writeServiceError(ctx, w, "login", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "enrollment operation failed",
			"operation", op,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
