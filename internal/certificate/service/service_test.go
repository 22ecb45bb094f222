package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	certmodels "shipcertify/internal/certificate/models"
	certstore "shipcertify/internal/certificate/store"
	"shipcertify/internal/ledger"
	registrymodels "shipcertify/internal/registry/models"
	registrystore "shipcertify/internal/registry/store"
	surveymodels "shipcertify/internal/survey/models"
	surveystore "shipcertify/internal/survey/store"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/requestcontext"
)

type CertificateServiceSuite struct {
	suite.Suite
	service  *Service
	kv       *ledger.InMemory
	certs    *certstore.Store
	surveys  *surveystore.Store
	registry *registrystore.Store
	now      time.Time
}

func TestCertificateServiceSuite(t *testing.T) {
	suite.Run(t, new(CertificateServiceSuite))
}

func (s *CertificateServiceSuite) SetupTest() {
	s.kv = ledger.NewInMemory()
	s.certs = certstore.New(s.kv)
	s.surveys = surveystore.New(s.kv)
	s.registry = registrystore.New(s.kv)
	s.service = New(s.certs, s.surveys, s.registry, s.kv)
	s.now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	vessel, err := registrymodels.NewVessel("V1", "MV Harapan", "cargo", "IMO9074729", "ID", 2011, "SO1", "AUTH001", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.registry.SaveVessel(context.Background(), vessel))
}

func (s *CertificateServiceSuite) authorityCtx() context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), domain.Identity{
		SubjectID:    "AUTH001",
		Organization: domain.OrgAuthority,
	})
	return requestcontext.WithTime(ctx, s.now)
}

func (s *CertificateServiceSuite) ownerCtx() context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), domain.Identity{
		SubjectID:    "SO1",
		Organization: domain.OrgShipOwner,
	})
	return requestcontext.WithTime(ctx, s.now)
}

// seedSurvey stores an in-progress survey on V1 with the given findings.
func (s *CertificateServiceSuite) seedSurvey(id string, findings ...surveymodels.Finding) *surveymodels.Survey {
	survey, err := surveymodels.NewSurvey(id, "V1", domain.SurveyTypeAnnual, "2026-05-01", "Inspector Raka", "AUTH001", s.now)
	s.Require().NoError(err)
	survey.ApplyStart("AUTH001", s.now)
	for _, f := range findings {
		survey.AppendFinding(f)
	}
	s.Require().NoError(s.surveys.Save(context.Background(), survey))
	return survey
}

func (s *CertificateServiceSuite) verifiedFinding(id string) surveymodels.Finding {
	f, err := surveymodels.NewFinding(id, "corroded plate", domain.SeverityMajor, "hull", "SOLAS II-1", "AUTH001", s.now)
	s.Require().NoError(err)
	f.ApplyResolution("replaced", "", "SO1", s.now)
	f.ApplyVerification("re-inspected", "AUTH001", s.now)
	return f
}

func (s *CertificateServiceSuite) openFinding(id string) surveymodels.Finding {
	f, err := surveymodels.NewFinding(id, "loose railing", domain.SeverityMinor, "deck", "reg-1", "AUTH001", s.now)
	s.Require().NoError(err)
	return f
}

func (s *CertificateServiceSuite) TestIssueCertificate() {
	s.Run("succeeds with all findings verified and completes the survey", func() {
		s.seedSurvey("SV1", s.verifiedFinding("F1"))

		cert, err := s.service.IssueCertificate(s.authorityCtx(), "C1", "V1", "SV1", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.Require().NoError(err)
		s.Equal(certmodels.CertificateStatusActive, cert.Status)
		s.Equal(domain.KindCertificate, cert.RecordKind)
		s.Equal("AUTH001", cert.IssuedBy)
		s.Equal(certmodels.ComputeHash("C1", "V1", "2026-06-15", "2027-06-15"), cert.Hash)

		survey, err := s.surveys.FindByID(context.Background(), "SV1")
		s.Require().NoError(err)
		s.Equal(surveymodels.SurveyStatusCompleted, survey.Status)
		s.Equal("C1", survey.CertificateID)
		s.NotNil(survey.CompletedAt)
	})

	s.Run("open finding blocks issuance and persists nothing", func() {
		s.seedSurvey("SV2", s.openFinding("F1"))

		_, err := s.service.IssueCertificate(s.authorityCtx(), "C2", "V1", "SV2", domain.CertificateTypeSafety, "2026-06-15", "2027-06-15")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePreconditionFailed))

		_, err = s.certs.FindByID(context.Background(), "C2")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		survey, err := s.surveys.FindByID(context.Background(), "SV2")
		s.Require().NoError(err)
		s.Equal(surveymodels.SurveyStatusInProgress, survey.Status)
	})

	s.Run("failed survey write leaves no certificate behind", func() {
		s.seedSurvey("SV7", s.verifiedFinding("F1"))
		svc := New(s.certs, failingSurveyStore{s.surveys}, s.registry, s.kv)

		_, err := svc.IssueCertificate(s.authorityCtx(), "C9", "V1", "SV7", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		_, err = s.certs.FindByID(context.Background(), "C9")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		survey, err := s.surveys.FindByID(context.Background(), "SV7")
		s.Require().NoError(err)
		s.Equal(surveymodels.SurveyStatusInProgress, survey.Status)
	})

	s.Run("resolved but unverified finding still blocks issuance", func() {
		f := s.openFinding("F1")
		f.ApplyResolution("patched", "", "SO1", s.now)
		s.seedSurvey("SV3", f)

		_, err := s.service.IssueCertificate(s.authorityCtx(), "C3", "V1", "SV3", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.True(dErrors.HasCode(err, dErrors.CodePreconditionFailed))
	})

	s.Run("issuance against a completed survey fails InvalidState", func() {
		s.seedSurvey("SV4")
		_, err := s.service.IssueCertificate(s.authorityCtx(), "C4", "V1", "SV4", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.Require().NoError(err)

		_, err = s.service.IssueCertificate(s.authorityCtx(), "C5", "V1", "SV4", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("unknown vessel fails NotFound", func() {
		s.seedSurvey("SV5")
		_, err := s.service.IssueCertificate(s.authorityCtx(), "C6", "ghost", "SV5", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown survey fails NotFound", func() {
		_, err := s.service.IssueCertificate(s.authorityCtx(), "C7", "V1", "ghost", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("ship owner caller is rejected", func() {
		s.seedSurvey("SV6")
		_, err := s.service.IssueCertificate(s.ownerCtx(), "C8", "V1", "SV6", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *CertificateServiceSuite) TestVerifyCertificate() {
	s.Run("future validTo is valid and hash recomputes", func() {
		s.seedSurvey("SV1")
		_, err := s.service.IssueCertificate(s.authorityCtx(), "C1", "V1", "SV1", domain.CertificateTypeClass, "2026-06-15", "2027-06-15")
		s.Require().NoError(err)

		result, err := s.service.VerifyCertificate(s.authorityCtx(), "C1")
		s.Require().NoError(err)
		s.True(result.IsValid)
		s.Equal("V1", result.VesselID)
		s.Equal("2027-06-15", result.ValidTo)
		s.Equal(certmodels.ComputeHash(result.CertificateID, result.VesselID, "2026-06-15", result.ValidTo), result.Hash)
	})

	s.Run("past validTo is invalid", func() {
		s.seedSurvey("SV2")
		_, err := s.service.IssueCertificate(s.authorityCtx(), "C2", "V1", "SV2", domain.CertificateTypeClass, "2025-01-01", "2026-01-01")
		s.Require().NoError(err)

		result, err := s.service.VerifyCertificate(s.authorityCtx(), "C2")
		s.Require().NoError(err)
		s.False(result.IsValid)
	})

	s.Run("validTo on the current day is still valid", func() {
		s.seedSurvey("SV3")
		_, err := s.service.IssueCertificate(s.authorityCtx(), "C3", "V1", "SV3", domain.CertificateTypeClass, "2026-01-01", "2026-06-15")
		s.Require().NoError(err)

		result, err := s.service.VerifyCertificate(s.authorityCtx(), "C3")
		s.Require().NoError(err)
		s.True(result.IsValid)
	})

	s.Run("unknown certificate fails NotFound", func() {
		_, err := s.service.VerifyCertificate(s.authorityCtx(), "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// failingSurveyStore reads through to the real store but refuses writes,
// standing in for a backend fault during the issuance transaction.
type failingSurveyStore struct {
	*surveystore.Store
}

func (failingSurveyStore) Save(context.Context, *surveymodels.Survey) error {
	return errors.New("ledger write refused")
}
