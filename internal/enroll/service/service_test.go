package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shipcertify/internal/enroll/store"
	"shipcertify/internal/jwtauth"
	"shipcertify/internal/ledger"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	"shipcertify/pkg/requestcontext"
)

type EnrollServiceSuite struct {
	suite.Suite
	service *Service
	tokens  *jwtauth.JWTService
	now     time.Time
}

func TestEnrollServiceSuite(t *testing.T) {
	suite.Run(t, new(EnrollServiceSuite))
}

func (s *EnrollServiceSuite) SetupTest() {
	s.tokens = jwtauth.NewJWTService("test-signing-key", "shipcertify", time.Hour)
	s.service = New(store.New(ledger.NewInMemory()), s.tokens)
	s.now = time.Now().UTC()
}

func (s *EnrollServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *EnrollServiceSuite) TestRegister() {
	s.Run("enrolls a ship owner user", func() {
		user, err := s.service.Register(s.ctx(), "owner1", "s3cret", "shipowner", "SO1")
		s.Require().NoError(err)
		s.Equal("SO1", user.PartyID)
		s.Equal(domain.KindUser, user.RecordKind)
		s.NotEqual("s3cret", user.PasswordHash)
	})

	s.Run("duplicate username conflicts", func() {
		_, err := s.service.Register(s.ctx(), "dup", "pw", "authority", "AUTH001")
		s.Require().NoError(err)
		_, err = s.service.Register(s.ctx(), "dup", "pw2", "authority", "AUTH002")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown organization is rejected", func() {
		_, err := s.service.Register(s.ctx(), "weird", "pw", "surveyor", "X1")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("empty password is rejected", func() {
		_, err := s.service.Register(s.ctx(), "nopw", "", "authority", "AUTH001")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *EnrollServiceSuite) TestLogin() {
	_, err := s.service.Register(s.ctx(), "owner1", "s3cret", "shipowner", "SO1")
	s.Require().NoError(err)

	s.Run("valid credentials issue a token carrying the party identity", func() {
		result, err := s.service.Login(s.ctx(), "owner1", "s3cret")
		s.Require().NoError(err)
		s.Equal("SO1", result.SubjectID)
		s.Equal(string(domain.OrgShipOwner), result.Organization)

		claims, err := s.tokens.ValidateToken(result.Token)
		s.Require().NoError(err)
		s.Equal("SO1", claims.SubjectID)
		s.Equal(string(domain.OrgShipOwner), claims.Organization)
	})

	s.Run("wrong password is unauthorized", func() {
		_, err := s.service.Login(s.ctx(), "owner1", "wrong")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown user reports the same error as a wrong password", func() {
		_, err := s.service.Login(s.ctx(), "ghost", "whatever")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing fields are invalid input", func() {
		_, err := s.service.Login(s.ctx(), "", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
