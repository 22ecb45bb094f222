// Package handler exposes the read-only listing endpoints, including the
// "my records" views scoped to the authenticated ship owner.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	certmodels "shipcertify/internal/certificate/models"
	registrymodels "shipcertify/internal/registry/models"
	surveymodels "shipcertify/internal/survey/models"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/httputil"
	"shipcertify/pkg/requestcontext"
)

// Service defines the interface for query operations.
type Service interface {
	AllShipOwners(ctx context.Context) ([]*registrymodels.ShipOwner, error)
	AllVessels(ctx context.Context) ([]*registrymodels.Vessel, error)
	AllSurveys(ctx context.Context) ([]*surveymodels.Survey, error)
	AllCertificates(ctx context.Context) ([]*certmodels.Certificate, error)
	AllFindings(ctx context.Context) ([]surveymodels.AnnotatedFinding, error)
	AllOpenFindings(ctx context.Context) ([]surveymodels.AnnotatedFinding, error)
	MyVessels(ctx context.Context, shipOwnerID string) ([]*registrymodels.Vessel, error)
	MySurveys(ctx context.Context, shipOwnerID string) ([]*surveymodels.Survey, error)
	MyOpenFindings(ctx context.Context, shipOwnerID string) ([]surveymodels.AnnotatedFinding, error)
	MyCertificates(ctx context.Context, shipOwnerID string) ([]*certmodels.Certificate, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the query routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/shipowners", h.handleListShipOwners)
	r.Get("/vessels", h.handleListVessels)
	r.Get("/surveys", h.handleListSurveys)
	r.Get("/certificates", h.handleListCertificates)
	r.Get("/findings", h.handleListFindings)
	r.Get("/findings/open", h.handleListOpenFindings)

	r.Get("/my/vessels", h.handleMyVessels)
	r.Get("/my/surveys", h.handleMySurveys)
	r.Get("/my/findings", h.handleMyOpenFindings)
	r.Get("/my/certificates", h.handleMyCertificates)
}

func (h *Handler) handleListShipOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.service.AllShipOwners(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "list ship owners", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, owners)
}

func (h *Handler) handleListVessels(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.service.AllVessels(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "list vessels", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, vessels)
}

func (h *Handler) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.service.AllSurveys(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "list surveys", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, surveys)
}

func (h *Handler) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := h.service.AllCertificates(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "list certificates", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, certs)
}

func (h *Handler) handleListFindings(w http.ResponseWriter, r *http.Request) {
	findings, err := h.service.AllFindings(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "list findings", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, findings)
}

func (h *Handler) handleListOpenFindings(w http.ResponseWriter, r *http.Request) {
	findings, err := h.service.AllOpenFindings(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "list open findings", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, findings)
}

// callerOwnerID resolves the ship owner id for "my records" views from the
// authenticated identity.
func callerOwnerID(ctx context.Context) (string, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller identity is missing")
	}
	if !caller.IsShipOwner() {
		return "", dErrors.New(dErrors.CodeForbidden, "only ship owners have owned records")
	}
	return caller.SubjectID, nil
}

func (h *Handler) handleMyVessels(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerOwnerID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	vessels, err := h.service.MyVessels(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(r.Context(), w, "list my vessels", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, vessels)
}

func (h *Handler) handleMySurveys(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerOwnerID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	surveys, err := h.service.MySurveys(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(r.Context(), w, "list my surveys", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, surveys)
}

func (h *Handler) handleMyOpenFindings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerOwnerID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	findings, err := h.service.MyOpenFindings(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(r.Context(), w, "list my findings", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, findings)
}

func (h *Handler) handleMyCertificates(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerOwnerID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	certs, err := h.service.MyCertificates(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(r.Context(), w, "list my certificates", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, certs)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "query operation failed",
			"operation", op,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
