package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shipcertify/internal/ledger"
	"shipcertify/internal/registry/models"
	"shipcertify/internal/registry/store"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/requestcontext"
)

type RegistryServiceSuite struct {
	suite.Suite
	service *Service
	store   *store.Store
	now     time.Time
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.store = store.New(ledger.NewInMemory())
	s.service = New(s.store)
	s.now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func (s *RegistryServiceSuite) authorityCtx() context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), domain.Identity{
		SubjectID:    "AUTH001",
		Organization: domain.OrgAuthority,
	})
	return requestcontext.WithTime(ctx, s.now)
}

func (s *RegistryServiceSuite) ownerCtx(subjectID string) context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), domain.Identity{
		SubjectID:    subjectID,
		Organization: domain.OrgShipOwner,
	})
	return requestcontext.WithTime(ctx, s.now)
}

func (s *RegistryServiceSuite) TestRegisterAuthority() {
	s.Run("authority caller succeeds", func() {
		authority, err := s.service.RegisterAuthority(s.authorityCtx(), "AUTH002", "authority2@class.org", "Regional Office")
		s.Require().NoError(err)
		s.Equal("AUTH002", authority.ID)
		s.True(authority.IsActive)
		s.Equal(domain.KindAuthority, authority.RecordKind)
		s.Equal("AUTH001", authority.RegisteredBy)
		s.Equal(s.now, authority.RegisteredAt)
	})

	s.Run("ship owner caller is rejected", func() {
		_, err := s.service.RegisterAuthority(s.ownerCtx("SO1"), "AUTH003", "a@b.c", "Nope")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("anonymous caller is rejected", func() {
		_, err := s.service.RegisterAuthority(context.Background(), "AUTH004", "a@b.c", "Nope")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty name is rejected", func() {
		_, err := s.service.RegisterAuthority(s.authorityCtx(), "AUTH005", "a@b.c", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *RegistryServiceSuite) TestRegisterShipOwner() {
	s.Run("authority caller succeeds", func() {
		owner, err := s.service.RegisterShipOwner(s.authorityCtx(), "SO1", "owner@pelago.id", "Pelago Lines", "PT Pelago")
		s.Require().NoError(err)
		s.Equal("SO1", owner.ID)
		s.Equal("PT Pelago", owner.CompanyName)
		s.Equal(domain.KindShipOwner, owner.RecordKind)
	})

	s.Run("ship owner caller is rejected", func() {
		_, err := s.service.RegisterShipOwner(s.ownerCtx("SO1"), "SO2", "x@y.z", "X", "X Corp")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("re-registering an id silently replaces the record", func() {
		_, err := s.service.RegisterShipOwner(s.authorityCtx(), "SO9", "first@x.id", "First", "First Co")
		s.Require().NoError(err)
		_, err = s.service.RegisterShipOwner(s.authorityCtx(), "SO9", "second@x.id", "Second", "Second Co")
		s.Require().NoError(err)

		owner, err := s.service.GetShipOwner(s.authorityCtx(), "SO9")
		s.Require().NoError(err)
		s.Equal("Second", owner.Name)
	})
}

func (s *RegistryServiceSuite) TestRegisterVessel() {
	s.Run("fails NotFound when owner does not resolve", func() {
		_, err := s.service.RegisterVessel(s.authorityCtx(), "V1", "MV Harapan", "cargo", "IMO9074729", "ID", 2011, "SO-missing")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		// No vessel may be persisted after a failed registration.
		_, err = s.store.FindVessel(context.Background(), "V1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("succeeds once the owner exists", func() {
		_, err := s.service.RegisterShipOwner(s.authorityCtx(), "SO1", "owner@pelago.id", "Pelago Lines", "PT Pelago")
		s.Require().NoError(err)

		vessel, err := s.service.RegisterVessel(s.authorityCtx(), "V1", "MV Harapan", "cargo", "IMO9074729", "ID", 2011, "SO1")
		s.Require().NoError(err)
		s.Equal("V1", vessel.ID)
		s.Equal("SO1", vessel.ShipOwnerID)
		s.Equal(models.VesselStatusRegistered, vessel.Status)
	})

	s.Run("ship owner caller is rejected even for own vessel", func() {
		_, err := s.service.RegisterVessel(s.ownerCtx("SO1"), "V2", "MV Nusantara", "tanker", "IMO9321483", "ID", 2015, "SO1")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *RegistryServiceSuite) TestGetVessel() {
	s.Run("returns NotFound for unknown id", func() {
		_, err := s.service.GetVessel(s.authorityCtx(), "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("requires an id", func() {
		_, err := s.service.GetVessel(s.authorityCtx(), "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
