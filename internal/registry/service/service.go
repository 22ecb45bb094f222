// Package service implements the identity and vessel registries: the
// operations that register authorities, ship owners, and vessels, plus the
// point lookups other features use to resolve references.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"shipcertify/internal/registry/metrics"
	"shipcertify/internal/registry/models"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	audit "shipcertify/pkg/platform/audit"
	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/requestcontext"
)

// Store is the persistence port for party and vessel records.
type Store interface {
	SaveAuthority(ctx context.Context, authority *models.Authority) error
	FindAuthority(ctx context.Context, id string) (*models.Authority, error)
	SaveShipOwner(ctx context.Context, owner *models.ShipOwner) error
	FindShipOwner(ctx context.Context, id string) (*models.ShipOwner, error)
	ListShipOwners(ctx context.Context) ([]*models.ShipOwner, error)
	SaveVessel(ctx context.Context, vessel *models.Vessel) error
	FindVessel(ctx context.Context, id string) (*models.Vessel, error)
	ListVessels(ctx context.Context) ([]*models.Vessel, error)
}

// AuditPublisher records registry actions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store   Store
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

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterAuthority persists a new authority party. Authority-credentialed
// callers only. Re-registering an existing id silently replaces the prior
// record; the ledger substrate has no uniqueness check beyond the key.
func (s *Service) RegisterAuthority(ctx context.Context, id, address, name string) (*models.Authority, error) {
	caller, err := requireAuthority(ctx, "only an authority can register new authorities")
	if err != nil {
		s.reject(err)
		return nil, err
	}

	authority, err := models.NewAuthority(id, address, name, caller.SubjectID, requestcontext.Now(ctx))
	if err != nil {
		s.reject(err)
		return nil, err
	}
	if err := s.store.SaveAuthority(ctx, authority); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist authority")
	}

	s.emit(ctx, caller, audit.EventAuthorityRegistered, authority.ID, domain.KindAuthority)
	s.metrics.IncrementAuthorities()
	s.logger.InfoContext(ctx, "authority registered", "authority_id", authority.ID, "registered_by", caller.SubjectID)
	return authority, nil
}

// RegisterShipOwner persists a new ship-owner party. Authority-only.
func (s *Service) RegisterShipOwner(ctx context.Context, id, address, name, companyName string) (*models.ShipOwner, error) {
	caller, err := requireAuthority(ctx, "only an authority can register ship owners")
	if err != nil {
		s.reject(err)
		return nil, err
	}

	owner, err := models.NewShipOwner(id, address, name, companyName, caller.SubjectID, requestcontext.Now(ctx))
	if err != nil {
		s.reject(err)
		return nil, err
	}
	if err := s.store.SaveShipOwner(ctx, owner); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist ship owner")
	}

	s.emit(ctx, caller, audit.EventShipOwnerRegistered, owner.ID, domain.KindShipOwner)
	s.metrics.IncrementShipOwners()
	s.logger.InfoContext(ctx, "ship owner registered", "ship_owner_id", owner.ID, "registered_by", caller.SubjectID)
	return owner, nil
}

// RegisterVessel persists a new vessel under an existing ship owner.
// Authority-only. The owner reference must resolve at creation time; it is
// not re-checked afterward.
func (s *Service) RegisterVessel(ctx context.Context, id, name, vesselType, imoNumber, flag string, buildYear int, shipOwnerID string) (*models.Vessel, error) {
	caller, err := requireAuthority(ctx, "only an authority can register vessels")
	if err != nil {
		s.reject(err)
		return nil, err
	}

	if _, err := s.store.FindShipOwner(ctx, shipOwnerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.Newf(dErrors.CodeNotFound, "ship owner %s does not exist", shipOwnerID)
			s.reject(err)
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve ship owner")
	}

	vessel, err := models.NewVessel(id, name, vesselType, imoNumber, flag, buildYear, shipOwnerID, caller.SubjectID, requestcontext.Now(ctx))
	if err != nil {
		s.reject(err)
		return nil, err
	}
	if err := s.store.SaveVessel(ctx, vessel); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist vessel")
	}

	s.emit(ctx, caller, audit.EventVesselRegistered, vessel.ID, domain.KindVessel)
	s.metrics.IncrementVessels()
	s.logger.InfoContext(ctx, "vessel registered",
		"vessel_id", vessel.ID,
		"ship_owner_id", vessel.ShipOwnerID,
		"registered_by", caller.SubjectID,
	)
	return vessel, nil
}

// GetVessel resolves a single vessel by id.
func (s *Service) GetVessel(ctx context.Context, id string) (*models.Vessel, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel id is required")
	}
	vessel, err := s.store.FindVessel(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vessel %s does not exist", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	return vessel, nil
}

// GetShipOwner resolves a single ship owner by id.
func (s *Service) GetShipOwner(ctx context.Context, id string) (*models.ShipOwner, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner id is required")
	}
	owner, err := s.store.FindShipOwner(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "ship owner %s does not exist", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ship owner")
	}
	return owner, nil
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

func (s *Service) emit(ctx context.Context, caller domain.Identity, action audit.AuditEvent, subject string, kind domain.RecordKind) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Actor:        caller.SubjectID,
		Organization: string(caller.Organization),
		Action:       string(action),
		Subject:      subject,
		Kind:         string(kind),
		RequestID:    requestcontext.RequestID(ctx),
		Timestamp:    requestcontext.Now(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func (s *Service) reject(err error) {
	s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
}
