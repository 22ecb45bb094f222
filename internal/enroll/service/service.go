// Package service implements gateway enrollment: registering login users
// bound to ledger parties and exchanging credentials for bearer tokens.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"shipcertify/internal/enroll/models"
	"shipcertify/internal/enroll/secrets"
	"shipcertify/internal/jwtauth"
	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
	audit "shipcertify/pkg/platform/audit"
	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/requestcontext"
)

// Store is the persistence port for enrolled users.
type Store interface {
	Save(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuditPublisher records enrollment and login events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LoginResult carries the issued token and the identity it represents.
type LoginResult struct {
	Token        string `json:"token"`
	SubjectID    string `json:"subjectId"`
	Organization string `json:"organization"`
}

type Service struct {
	store   Store
	tokens  *jwtauth.JWTService
	logger  *slog.Logger
	auditor AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func New(store Store, tokens *jwtauth.JWTService, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tokens: tokens,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register enrolls a login user bound to a ledger party. Duplicate usernames
// conflict rather than silently replacing the stored credential.
func (s *Service) Register(ctx context.Context, username, password, organization, partyID string) (*models.User, error) {
	org, err := domain.ParseOrganization(organization)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, dErrors.Newf(dErrors.CodeConflict, "user %s is already enrolled", username)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing user")
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}
	user, err := models.NewUser(username, hash, org, partyID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist user")
	}

	s.emit(ctx, user, audit.EventUserEnrolled)
	s.logger.InfoContext(ctx, "user enrolled",
		"username", username,
		"organization", org,
		"party_id", partyID,
	)
	return user, nil
}

// Login verifies credentials and issues a bearer token whose subject is the
// user's ledger party id.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username and password are required")
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Same error as a wrong password so usernames cannot be probed.
			s.emitFailure(ctx, username)
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.emitFailure(ctx, username)
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}

	token, err := s.tokens.GenerateToken(user.Identity(), requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emit(ctx, user, audit.EventLoginSucceeded)
	s.logger.InfoContext(ctx, "login succeeded", "username", username, "subject_id", user.PartyID)
	return &LoginResult{
		Token:        token,
		SubjectID:    user.PartyID,
		Organization: string(user.Organization),
	}, nil
}

func (s *Service) emit(ctx context.Context, user *models.User, action audit.AuditEvent) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Actor:        user.PartyID,
		Organization: string(user.Organization),
		Action:       string(action),
		Subject:      user.Username,
		Kind:         string(domain.KindUser),
		RequestID:    requestcontext.RequestID(ctx),
		Timestamp:    requestcontext.Now(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func (s *Service) emitFailure(ctx context.Context, username string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Action:    string(audit.EventLoginFailed),
		Subject:   username,
		Kind:      string(domain.KindUser),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", audit.EventLoginFailed, "error", err)
	}
}
