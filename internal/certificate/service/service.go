// Package service implements certificate issuance and verification.
//
// Issuance is the only operation in the system that mutates two records: it
// writes the new certificate and completes the referenced survey. Both writes
// run inside one StoreTx scope so readers never observe one without the other.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"shipcertify/internal/certificate/metrics"
	certmodels "shipcertify/internal/certificate/models"
	registrymodels "shipcertify/internal/registry/models"
	surveymodels "shipcertify/internal/survey/models"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	audit "shipcertify/pkg/platform/audit"
	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/platform/tx"
	"shipcertify/pkg/requestcontext"
)

// Store is the persistence port for certificates.
type Store interface {
	Save(ctx context.Context, cert *certmodels.Certificate) error
	FindByID(ctx context.Context, id string) (*certmodels.Certificate, error)
	List(ctx context.Context) ([]*certmodels.Certificate, error)
}

// SurveyStore loads and completes the survey an issuance references.
type SurveyStore interface {
	FindByID(ctx context.Context, id string) (*surveymodels.Survey, error)
	Save(ctx context.Context, survey *surveymodels.Survey) error
}

// VesselResolver resolves the vessel an issuance references.
type VesselResolver interface {
	FindVessel(ctx context.Context, id string) (*registrymodels.Vessel, error)
}

// AuditPublisher records issuance on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store    Store
	surveys  SurveyStore
	vessels  VesselResolver
	txRunner tx.StoreTx
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *metrics.Metrics
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

func New(store Store, surveys SurveyStore, vessels VesselResolver, txRunner tx.StoreTx, opts ...Option) *Service {
	s := &Service{
		store:    store,
		surveys:  surveys,
		vessels:  vessels,
		txRunner: txRunner,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueCertificate issues a certificate for a vessel against a survey whose
// findings are all verified, and completes the survey as a side effect.
// Authority-only.
func (s *Service) IssueCertificate(ctx context.Context, certificateID, vesselID, surveyID string, certificateType domain.CertificateType, validFrom, validTo string) (*certmodels.Certificate, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity is missing")
	}
	if !caller.IsAuthority() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only an authority can issue certificates")
	}

	if _, err := s.vessels.FindVessel(ctx, vesselID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel %s does not exist", vesselID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve vessel")
	}

	survey, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "survey %s does not exist", surveyID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load survey")
	}

	if err := survey.CanComplete(); err != nil {
		if dErrors.HasCode(err, dErrors.CodePreconditionFailed) {
			s.metrics.IncrementBlocked()
		}
		return nil, err
	}

	cert, err := certmodels.NewCertificate(certificateID, vesselID, surveyID, certificateType, validFrom, validTo, caller.SubjectID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	survey.ApplyCompletion(cert.ID, requestcontext.Now(ctx))

	err = s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Save(ctx, cert); err != nil {
			return err
		}
		return s.surveys.Save(ctx, survey)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist certificate issuance")
	}

	s.emit(ctx, caller.SubjectID, string(caller.Organization), audit.EventCertificateIssued, cert.ID)
	s.metrics.IncrementIssued()
	s.logger.InfoContext(ctx, "certificate issued",
		"certificate_id", cert.ID,
		"vessel_id", vesselID,
		"survey_id", surveyID,
		"issued_by", caller.SubjectID,
	)
	return cert, nil
}

// GetCertificate resolves a certificate by id.
func (s *Service) GetCertificate(ctx context.Context, id string) (*certmodels.Certificate, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "certificate id is required")
	}
	cert, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "certificate %s does not exist", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}
	return cert, nil
}

// VerifyCertificate computes the current validity of a certificate without
// mutating anything. Validity means status active and the current calendar
// date not past ValidTo.
func (s *Service) VerifyCertificate(ctx context.Context, id string) (*certmodels.Verification, error) {
	cert, err := s.GetCertificate(ctx, id)
	if err != nil {
		return nil, err
	}

	valid := cert.ValidOn(requestcontext.Now(ctx))
	s.metrics.IncrementVerification(valid)
	return &certmodels.Verification{
		CertificateID: cert.ID,
		VesselID:      cert.VesselID,
		IsValid:       valid,
		ValidTo:       cert.ValidTo,
		Hash:          cert.Hash,
	}, nil
}

func (s *Service) emit(ctx context.Context, actor, organization string, action audit.AuditEvent, subject string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Actor:        actor,
		Organization: organization,
		Action:       string(action),
		Subject:      subject,
		Kind:         string(domain.KindCertificate),
		RequestID:    requestcontext.RequestID(ctx),
		Timestamp:    requestcontext.Now(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
