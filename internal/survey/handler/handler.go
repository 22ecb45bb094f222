// Package handler exposes the survey lifecycle endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shipcertify/internal/survey/models"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/httputil"
	"shipcertify/pkg/requestcontext"
)

// Service defines the interface for survey operations.
type Service interface {
	ScheduleSurvey(ctx context.Context, id, vesselID string, surveyType domain.SurveyType, scheduledDate, surveyorName string) (*models.Survey, error)
	StartSurvey(ctx context.Context, id string) (*models.Survey, error)
	AddFinding(ctx context.Context, surveyID, findingID, description string, severity domain.Severity, location, requirement string) (*models.Finding, error)
	ResolveFinding(ctx context.Context, surveyID, findingID, resolutionDescription, evidenceURL string) (*models.Finding, error)
	VerifyFinding(ctx context.Context, surveyID, findingID, verificationNotes string) (*models.Finding, error)
	ListFindings(ctx context.Context, surveyID string) ([]models.Finding, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the survey routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/surveys", h.handleScheduleSurvey)
	r.Put("/surveys/{surveyId}/start", h.handleStartSurvey)
	r.Post("/surveys/{surveyId}/findings", h.handleAddFinding)
	r.Put("/surveys/{surveyId}/findings/{findingId}/resolve", h.handleResolveFinding)
	r.Put("/surveys/{surveyId}/findings/{findingId}/verify", h.handleVerifyFinding)
	r.Get("/surveys/{surveyId}/findings", h.handleListFindings)
}

type scheduleSurveyRequest struct {
	SurveyID      string `json:"surveyId"`
	VesselID      string `json:"vesselId"`
	SurveyType    string `json:"surveyType"`
	ScheduledDate string `json:"scheduledDate"`
	SurveyorName  string `json:"surveyorName"`
}

func (h *Handler) handleScheduleSurvey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scheduleSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	surveyType, err := domain.ParseSurveyType(req.SurveyType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	survey, err := h.service.ScheduleSurvey(ctx, req.SurveyID, req.VesselID, surveyType, req.ScheduledDate, req.SurveyorName)
	if err != nil {
		h.writeServiceError(ctx, w, "schedule survey", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, survey)
}

func (h *Handler) handleStartSurvey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	survey, err := h.service.StartSurvey(ctx, chi.URLParam(r, "surveyId"))
	if err != nil {
		h.writeServiceError(ctx, w, "start survey", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, survey)
}

type addFindingRequest struct {
	FindingID   string `json:"findingId"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Location    string `json:"location"`
	Requirement string `json:"requirement"`
}

func (h *Handler) handleAddFinding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addFindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	severity, err := domain.ParseSeverity(req.Severity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	finding, err := h.service.AddFinding(ctx, chi.URLParam(r, "surveyId"), req.FindingID, req.Description, severity, req.Location, req.Requirement)
	if err != nil {
		h.writeServiceError(ctx, w, "add finding", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, finding)
}

type resolveFindingRequest struct {
	ResolutionDescription string `json:"resolutionDescription"`
	EvidenceURL           string `json:"evidenceUrl"`
}

func (h *Handler) handleResolveFinding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resolveFindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.ResolutionDescription == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "resolution description is required"))
		return
	}

	finding, err := h.service.ResolveFinding(ctx, chi.URLParam(r, "surveyId"), chi.URLParam(r, "findingId"), req.ResolutionDescription, req.EvidenceURL)
	if err != nil {
		h.writeServiceError(ctx, w, "resolve finding", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, finding)
}

type verifyFindingRequest struct {
	VerificationNotes string `json:"verificationNotes"`
}

func (h *Handler) handleVerifyFinding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyFindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	finding, err := h.service.VerifyFinding(ctx, chi.URLParam(r, "surveyId"), chi.URLParam(r, "findingId"), req.VerificationNotes)
	if err != nil {
		h.writeServiceError(ctx, w, "verify finding", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, finding)
}

func (h *Handler) handleListFindings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	findings, err := h.service.ListFindings(ctx, chi.URLParam(r, "surveyId"))
	if err != nil {
		h.writeServiceError(ctx, w, "list findings", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, findings)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "survey operation failed",
			"operation", op,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
