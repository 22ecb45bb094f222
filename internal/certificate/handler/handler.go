// Package handler exposes certificate issuance and verification endpoints.
// Verification is a public read, mounted outside the authenticated router.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shipcertify/internal/certificate/models"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/httputil"
	"shipcertify/pkg/requestcontext"
)

// Service defines the interface for certificate operations.
type Service interface {
	IssueCertificate(ctx context.Context, certificateID, vesselID, surveyID string, certificateType domain.CertificateType, validFrom, validTo string) (*models.Certificate, error)
	GetCertificate(ctx context.Context, id string) (*models.Certificate, error)
	VerifyCertificate(ctx context.Context, id string) (*models.Verification, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the authenticated certificate routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/certificates", h.handleIssueCertificate)
	r.Get("/certificates/{certificateId}", h.handleGetCertificate)
}

// RegisterPublic registers the unauthenticated verification route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/certificates/{certificateId}/verify", h.handleVerifyCertificate)
}

type issueCertificateRequest struct {
	CertificateID   string `json:"certificateId"`
	VesselID        string `json:"vesselId"`
	SurveyID        string `json:"surveyId"`
	CertificateType string `json:"certificateType"`
	ValidFrom       string `json:"validFrom"`
	ValidTo         string `json:"validTo"`
}

func (h *Handler) handleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req issueCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	certificateType, err := domain.ParseCertificateType(req.CertificateType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cert, err := h.service.IssueCertificate(ctx, req.CertificateID, req.VesselID, req.SurveyID, certificateType, req.ValidFrom, req.ValidTo)
	if err != nil {
		h.writeServiceError(ctx, w, "issue certificate", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, cert)
}

func (h *Handler) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cert, err := h.service.GetCertificate(ctx, chi.URLParam(r, "certificateId"))
	if err != nil {
		h.writeServiceError(ctx, w, "get certificate", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, cert)
}

func (h *Handler) handleVerifyCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.VerifyCertificate(ctx, chi.URLParam(r, "certificateId"))
	if err != nil {
		h.writeServiceError(ctx, w, "verify certificate", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "certificate operation failed",
			"operation", op,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
