// Package service implements the survey and finding state machines:
// scheduling and starting surveys, and driving embedded findings through
// open → resolved → verified.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	registrymodels "shipcertify/internal/registry/models"
	"shipcertify/internal/survey/metrics"
	"shipcertify/internal/survey/models"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	audit "shipcertify/pkg/platform/audit"
	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/requestcontext"
)

// Store is the persistence port for survey aggregates.
type Store interface {
	Save(ctx context.Context, survey *models.Survey) error
	FindByID(ctx context.Context, id string) (*models.Survey, error)
	List(ctx context.Context) ([]*models.Survey, error)
}

// VesselResolver resolves vessel references for scheduling and ownership
// checks. Satisfied by the registry store.
type VesselResolver interface {
	FindVessel(ctx context.Context, id string) (*registrymodels.Vessel, error)
}

// AuditPublisher records survey actions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store   Store
	vessels VesselResolver
	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, vessels VesselResolver, opts ...Option) *Service {
	s := &Service{
		store:   store,
		vessels: vessels,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleSurvey creates a survey in scheduled status against an existing
// vessel. Authority-only.
func (s *Service) ScheduleSurvey(ctx context.Context, id, vesselID string, surveyType domain.SurveyType, scheduledDate, surveyorName string) (*models.Survey, error) {
	caller, err := requireAuthority(ctx, "only an authority can schedule surveys")
	if err != nil {
		return nil, err
	}

	if _, err := s.vessels.FindVessel(ctx, vesselID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel %s does not exist", vesselID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve vessel")
	}

	survey, err := models.NewSurvey(id, vesselID, surveyType, scheduledDate, surveyorName, caller.SubjectID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, survey); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist survey")
	}

	s.emit(ctx, caller, audit.EventSurveyScheduled, survey.ID)
	s.metrics.IncrementScheduled()
	s.logger.InfoContext(ctx, "survey scheduled", "survey_id", survey.ID, "vessel_id", vesselID)
	return survey, nil
}

// StartSurvey moves a survey from scheduled to in-progress. Authority-only.
func (s *Service) StartSurvey(ctx context.Context, id string) (*models.Survey, error) {
	caller, err := requireAuthority(ctx, "only an authority can start surveys")
	if err != nil {
		return nil, err
	}

	survey, err := s.loadSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := survey.CanStart(); err != nil {
		return nil, err
	}
	survey.ApplyStart(caller.SubjectID, requestcontext.Now(ctx))

	if err := s.store.Save(ctx, survey); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist survey")
	}

	s.emit(ctx, caller, audit.EventSurveyStarted, survey.ID)
	s.metrics.IncrementStarted()
	s.logger.InfoContext(ctx, "survey started", "survey_id", survey.ID, "started_by", caller.SubjectID)
	return survey, nil
}

// AddFinding appends a new open finding to an in-progress survey.
// Authority-only. Finding ids are unique within their survey.
func (s *Service) AddFinding(ctx context.Context, surveyID, findingID, description string, severity domain.Severity, location, requirement string) (*models.Finding, error) {
	caller, err := requireAuthority(ctx, "only an authority can add findings")
	if err != nil {
		return nil, err
	}

	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := survey.CanAddFinding(findingID); err != nil {
		return nil, err
	}

	finding, err := models.NewFinding(findingID, description, severity, location, requirement, caller.SubjectID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	survey.AppendFinding(finding)

	if err := s.store.Save(ctx, survey); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist survey")
	}

	s.emit(ctx, caller, audit.EventFindingAdded, surveyID)
	s.metrics.IncrementFindingAdded(string(severity))
	s.logger.InfoContext(ctx, "finding added",
		"survey_id", surveyID,
		"finding_id", findingID,
		"severity", severity,
	)
	return &finding, nil
}

// ResolveFinding transitions a finding from open to resolved. Allowed for an
// authority, or for the ship owner that owns the survey's vessel. The
// ownership check resolves the survey's vessel and compares its shipOwnerId
// against the caller's subject id with exact equality.
func (s *Service) ResolveFinding(ctx context.Context, surveyID, findingID, resolutionDescription, evidenceURL string) (*models.Finding, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity is missing")
	}
	if !caller.IsAuthority() && !caller.IsShipOwner() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only a ship owner or an authority can resolve findings")
	}

	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	if caller.IsShipOwner() {
		vessel, err := s.vessels.FindVessel(ctx, survey.VesselID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel %s does not exist", survey.VesselID)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve vessel")
		}
		if !vessel.OwnedBy(caller.SubjectID) {
			return nil, dErrors.Newf(dErrors.CodeForbidden, "caller is not the owner of vessel %s", survey.VesselID)
		}
	}

	finding, ok := survey.FindingByID(findingID)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "finding %s not found in survey %s", findingID, surveyID)
	}
	if err := finding.CanResolve(); err != nil {
		return nil, err
	}
	finding.ApplyResolution(resolutionDescription, evidenceURL, caller.SubjectID, requestcontext.Now(ctx))

	if err := s.store.Save(ctx, survey); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist survey")
	}

	s.emit(ctx, caller, audit.EventFindingResolved, surveyID)
	s.metrics.IncrementFindingResolved()
	s.logger.InfoContext(ctx, "finding resolved",
		"survey_id", surveyID,
		"finding_id", findingID,
		"resolved_by", caller.SubjectID,
	)
	return finding, nil
}

// VerifyFinding transitions a finding from resolved to verified.
// Authority-only.
func (s *Service) VerifyFinding(ctx context.Context, surveyID, findingID, verificationNotes string) (*models.Finding, error) {
	caller, err := requireAuthority(ctx, "only an authority can verify findings")
	if err != nil {
		return nil, err
	}

	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	finding, ok := survey.FindingByID(findingID)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "finding %s not found in survey %s", findingID, surveyID)
	}
	if err := finding.CanVerify(); err != nil {
		return nil, err
	}
	finding.ApplyVerification(verificationNotes, caller.SubjectID, requestcontext.Now(ctx))

	if err := s.store.Save(ctx, survey); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist survey")
	}

	s.emit(ctx, caller, audit.EventFindingVerified, surveyID)
	s.metrics.IncrementFindingVerified()
	s.logger.InfoContext(ctx, "finding verified",
		"survey_id", surveyID,
		"finding_id", findingID,
		"verified_by", caller.SubjectID,
	)
	return finding, nil
}

// GetSurvey resolves a single survey by id.
func (s *Service) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	return s.loadSurvey(ctx, id)
}

// ListFindings returns a survey's findings sequence.
func (s *Service) ListFindings(ctx context.Context, surveyID string) ([]models.Finding, error) {
	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return survey.Findings, nil
}

func (s *Service) loadSurvey(ctx context.Context, id string) (*models.Survey, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "survey id is required")
	}
	survey, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "survey %s does not exist", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load survey")
	}
	return survey, nil
}

func requireAuthority(ctx context.Context, message string) (domain.Identity, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return domain.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is missing")
	}
	if !caller.IsAuthority() {
		return domain.Identity{}, dErrors.New(dErrors.CodeForbidden, message)
	}
	return caller, nil
}

func (s *Service) emit(ctx context.Context, caller domain.Identity, action audit.AuditEvent, subject string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Actor:        caller.SubjectID,
		Organization: string(caller.Organization),
		Action:       string(action),
		Subject:      subject,
		Kind:         string(domain.KindSurvey),
		RequestID:    requestcontext.RequestID(ctx),
		Timestamp:    requestcontext.Now(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
