package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"shipcertify/pkg/domain"
	"shipcertify/pkg/platform/audit"
	"shipcertify/pkg/platform/audit/publisher"
	auditmemory "shipcertify/pkg/platform/audit/store/memory"
	"shipcertify/pkg/requestcontext"
)

// AuditHandlerSuite drives the audit trail endpoint against a synchronous
// publisher over the in-memory store, with the caller identity injected the
// way the auth middleware would.
type AuditHandlerSuite struct {
	suite.Suite
	router   chi.Router
	store    *auditmemory.InMemoryStore
	pub      *publisher.Publisher
	identity domain.Identity
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerSuite))
}

func (s *AuditHandlerSuite) SetupSuite() {
	s.store = auditmemory.NewInMemoryStore()
	s.pub = publisher.NewPublisher(s.store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithIdentity(r.Context(), s.identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	New(s.pub, logger).Register(s.router)
}

func (s *AuditHandlerSuite) SetupTest() {
	s.store.Clear()
	s.identity = domain.Identity{SubjectID: "AUTH001", Organization: domain.OrgAuthority}
}

func (s *AuditHandlerSuite) emit(actor, action, subject string) {
	err := s.pub.Emit(context.Background(), audit.Event{
		Actor:   actor,
		Action:  action,
		Subject: subject,
	})
	s.Require().NoError(err)
}

func (s *AuditHandlerSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuditHandlerSuite) events(w *httptest.ResponseRecorder) []audit.Event {
	var resp struct {
		Success bool          `json:"success"`
		Data    []audit.Event `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Success)
	return resp.Data
}

func (s *AuditHandlerSuite) TestListEvents() {
	s.Run("returns every stored event", func() {
		s.emit("AUTH001", string(audit.EventVesselRegistered), "V1")
		s.emit("SO1", string(audit.EventFindingResolved), "F1")

		w := s.get("/audit/events")
		s.Require().Equal(http.StatusOK, w.Code)

		subjects := make([]string, 0, 2)
		for _, e := range s.events(w) {
			subjects = append(subjects, e.Subject)
		}
		s.ElementsMatch([]string{"V1", "F1"}, subjects)
	})

	s.Run("filters by actor", func() {
		s.store.Clear()
		s.emit("AUTH001", string(audit.EventVesselRegistered), "V1")
		s.emit("SO1", string(audit.EventFindingResolved), "F1")

		w := s.get("/audit/events?actor=SO1")
		s.Require().Equal(http.StatusOK, w.Code)

		events := s.events(w)
		s.Require().Len(events, 1)
		s.Equal("F1", events[0].Subject)
		s.Equal("SO1", events[0].Actor)
	})

	s.Run("empty trail yields an empty sequence", func() {
		s.store.Clear()
		w := s.get("/audit/events")
		s.Require().Equal(http.StatusOK, w.Code)
		s.Empty(s.events(w))
	})
}

func (s *AuditHandlerSuite) TestAuthorization() {
	s.Run("ship owner is rejected", func() {
		s.identity = domain.Identity{SubjectID: "SO1", Organization: domain.OrgShipOwner}
		w := s.get("/audit/events")
		s.Require().Equal(http.StatusForbidden, w.Code)
	})

	s.Run("anonymous caller is rejected", func() {
		s.identity = domain.Identity{}
		w := s.get("/audit/events")
		s.Require().Equal(http.StatusUnauthorized, w.Code)
	})
}
