// Package service implements the read-only projections over the ledger:
// "all of kind" listings and the ownership-scoped views ship owners use to
// see only records tied to their vessels. Every listing is a full scan
// filtered by record kind; no secondary index is maintained.
package service

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	certmodels "shipcertify/internal/certificate/models"
	registrymodels "shipcertify/internal/registry/models"
	surveymodels "shipcertify/internal/survey/models"
	dErrors "shipcertify/pkg/domain-errors"
)

// RegistryStore lists party and vessel records.
type RegistryStore interface {
	ListShipOwners(ctx context.Context) ([]*registrymodels.ShipOwner, error)
	ListVessels(ctx context.Context) ([]*registrymodels.Vessel, error)
}

// SurveyStore lists survey aggregates.
type SurveyStore interface {
	List(ctx context.Context) ([]*surveymodels.Survey, error)
}

// CertificateStore lists certificate records.
type CertificateStore interface {
	List(ctx context.Context) ([]*certmodels.Certificate, error)
}

type Service struct {
	registry RegistryStore
	surveys  SurveyStore
	certs    CertificateStore
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(registry RegistryStore, surveys SurveyStore, certs CertificateStore, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		surveys:  surveys,
		certs:    certs,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AllShipOwners(ctx context.Context) ([]*registrymodels.ShipOwner, error) {
	owners, err := s.registry.ListShipOwners(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ship owners")
	}
	return owners, nil
}

func (s *Service) AllVessels(ctx context.Context) ([]*registrymodels.Vessel, error) {
	vessels, err := s.registry.ListVessels(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vessels")
	}
	return vessels, nil
}

func (s *Service) AllSurveys(ctx context.Context) ([]*surveymodels.Survey, error) {
	surveys, err := s.surveys.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list surveys")
	}
	return surveys, nil
}

func (s *Service) AllCertificates(ctx context.Context) ([]*certmodels.Certificate, error) {
	certs, err := s.certs.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list certificates")
	}
	return certs, nil
}

// AllFindings flattens every survey's findings, each annotated with its
// parent survey and vessel ids.
func (s *Service) AllFindings(ctx context.Context) ([]surveymodels.AnnotatedFinding, error) {
	surveys, err := s.AllSurveys(ctx)
	if err != nil {
		return nil, err
	}
	return flattenFindings(surveys, func(surveymodels.Finding) bool { return true }), nil
}

// AllOpenFindings flattens only the findings still in open status.
func (s *Service) AllOpenFindings(ctx context.Context) ([]surveymodels.AnnotatedFinding, error) {
	surveys, err := s.AllSurveys(ctx)
	if err != nil {
		return nil, err
	}
	return flattenFindings(surveys, isOpen), nil
}

// MyVessels returns the vessels owned by the given ship owner, by exact
// match on the canonical owner id.
func (s *Service) MyVessels(ctx context.Context, shipOwnerID string) ([]*registrymodels.Vessel, error) {
	if shipOwnerID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner id is required")
	}
	vessels, err := s.AllVessels(ctx)
	if err != nil {
		return nil, err
	}
	mine := []*registrymodels.Vessel{}
	for _, v := range vessels {
		if v.OwnedBy(shipOwnerID) {
			mine = append(mine, v)
		}
	}
	return mine, nil
}

// MySurveys returns surveys whose vessel belongs to the given ship owner.
// The vessel and survey scans are independent, so they run concurrently.
func (s *Service) MySurveys(ctx context.Context, shipOwnerID string) ([]*surveymodels.Survey, error) {
	var (
		vesselIDs map[string]bool
		surveys   []*surveymodels.Survey
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vesselIDs, err = s.myVesselIDs(gctx, shipOwnerID)
		return err
	})
	g.Go(func() (err error) {
		surveys, err = s.AllSurveys(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	mine := []*surveymodels.Survey{}
	for _, sv := range surveys {
		if vesselIDs[sv.VesselID] {
			mine = append(mine, sv)
		}
	}
	return mine, nil
}

// MyOpenFindings flattens the open findings across the ship owner's surveys.
func (s *Service) MyOpenFindings(ctx context.Context, shipOwnerID string) ([]surveymodels.AnnotatedFinding, error) {
	surveys, err := s.MySurveys(ctx, shipOwnerID)
	if err != nil {
		return nil, err
	}
	return flattenFindings(surveys, isOpen), nil
}

// MyCertificates returns certificates issued for the ship owner's vessels.
func (s *Service) MyCertificates(ctx context.Context, shipOwnerID string) ([]*certmodels.Certificate, error) {
	var (
		vesselIDs map[string]bool
		certs     []*certmodels.Certificate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vesselIDs, err = s.myVesselIDs(gctx, shipOwnerID)
		return err
	})
	g.Go(func() (err error) {
		certs, err = s.AllCertificates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	mine := []*certmodels.Certificate{}
	for _, c := range certs {
		if vesselIDs[c.VesselID] {
			mine = append(mine, c)
		}
	}
	return mine, nil
}

func (s *Service) myVesselIDs(ctx context.Context, shipOwnerID string) (map[string]bool, error) {
	vessels, err := s.MyVessels(ctx, shipOwnerID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(vessels))
	for _, v := range vessels {
		ids[v.ID] = true
	}
	return ids, nil
}

func isOpen(f surveymodels.Finding) bool {
	return f.Status == surveymodels.FindingStatusOpen
}

func flattenFindings(surveys []*surveymodels.Survey, keep func(surveymodels.Finding) bool) []surveymodels.AnnotatedFinding {
	findings := []surveymodels.AnnotatedFinding{}
	for _, sv := range surveys {
		for _, f := range sv.Findings {
			if keep(f) {
				findings = append(findings, surveymodels.AnnotatedFinding{
					Finding:  f,
					SurveyID: sv.ID,
					VesselID: sv.VesselID,
				})
			}
		}
	}
	return findings
}
