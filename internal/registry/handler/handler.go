// Package handler exposes the registry endpoints: party and vessel
// registration plus registry reads.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shipcertify/internal/registry/models"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/httputil"
	"shipcertify/pkg/requestcontext"
)

// Service defines the interface for registry operations.
type Service interface {
	RegisterAuthority(ctx context.Context, id, address, name string) (*models.Authority, error)
	RegisterShipOwner(ctx context.Context, id, address, name, companyName string) (*models.ShipOwner, error)
	RegisterVessel(ctx context.Context, id, name, vesselType, imoNumber, flag string, buildYear int, shipOwnerID string) (*models.Vessel, error)
	GetVessel(ctx context.Context, id string) (*models.Vessel, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the registry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/authorities", h.handleRegisterAuthority)
	r.Post("/shipowners", h.handleRegisterShipOwner)
	r.Post("/vessels", h.handleRegisterVessel)
	r.Get("/vessels/{vesselId}", h.handleGetVessel)
}

type registerAuthorityRequest struct {
	AuthorityID string `json:"authorityId"`
	Address     string `json:"address"`
	Name        string `json:"name"`
}

func (h *Handler) handleRegisterAuthority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerAuthorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	authority, err := h.service.RegisterAuthority(ctx, req.AuthorityID, req.Address, req.Name)
	if err != nil {
		h.writeServiceError(ctx, w, "register authority", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, authority)
}

type registerShipOwnerRequest struct {
	ShipOwnerID string `json:"shipOwnerId"`
	Address     string `json:"address"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
}

func (h *Handler) handleRegisterShipOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerShipOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	owner, err := h.service.RegisterShipOwner(ctx, req.ShipOwnerID, req.Address, req.Name, req.CompanyName)
	if err != nil {
		h.writeServiceError(ctx, w, "register ship owner", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, owner)
}

type registerVesselRequest struct {
	VesselID    string `json:"vesselId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	IMONumber   string `json:"imoNumber"`
	Flag        string `json:"flag"`
	BuildYear   int    `json:"buildYear"`
	ShipOwnerID string `json:"shipOwnerId"`
}

func (h *Handler) handleRegisterVessel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerVesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	vessel, err := h.service.RegisterVessel(ctx, req.VesselID, req.Name, req.Type, req.IMONumber, req.Flag, req.BuildYear, req.ShipOwnerID)
	if err != nil {
		h.writeServiceError(ctx, w, "register vessel", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, vessel)
}

func (h *Handler) handleGetVessel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vessel, err := h.service.GetVessel(ctx, chi.URLParam(r, "vesselId"))
	if err != nil {
		h.writeServiceError(ctx, w, "get vessel", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, vessel)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "registry operation failed",
			"operation", op,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
