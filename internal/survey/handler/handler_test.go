package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"shipcertify/internal/ledger"
	registrymodels "shipcertify/internal/registry/models"
	registrystore "shipcertify/internal/registry/store"
	surveyservice "shipcertify/internal/survey/service"
	surveystore "shipcertify/internal/survey/store"
	"shipcertify/pkg/domain"
	"shipcertify/pkg/requestcontext"
)

// SurveyHandlerSuite drives the survey routes end to end over an in-memory
// ledger, with the caller identity injected the way the auth middleware
// would.
type SurveyHandlerSuite struct {
	suite.Suite
	router   chi.Router
	identity domain.Identity
	now      time.Time
}

func TestSurveyHandlerSuite(t *testing.T) {
	suite.Run(t, new(SurveyHandlerSuite))
}

func (s *SurveyHandlerSuite) SetupTest() {
	kv := ledger.NewInMemory()
	registry := registrystore.New(kv)
	service := surveyservice.New(surveystore.New(kv), registry)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.now = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	s.identity = domain.Identity{SubjectID: "AUTH001", Organization: domain.OrgAuthority}

	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithIdentity(r.Context(), s.identity)
			ctx = requestcontext.WithTime(ctx, s.now)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	New(service, logger).Register(s.router)

	vessel, err := registrymodels.NewVessel("V1", "MV Harapan", "cargo", "IMO9074729", "ID", 2011, "SO1", "AUTH001", s.now)
	s.Require().NoError(err)
	s.Require().NoError(registry.SaveVessel(context.Background(), vessel))
}

func (s *SurveyHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *SurveyHandlerSuite) data(w *httptest.ResponseRecorder) map[string]any {
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Success)
	return resp.Data
}

func (s *SurveyHandlerSuite) schedule(id string) {
	w := s.do(http.MethodPost, "/surveys", map[string]any{
		"surveyId":      id,
		"vesselId":      "V1",
		"surveyType":    "annual",
		"scheduledDate": "2026-05-01",
		"surveyorName":  "Inspector Raka",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *SurveyHandlerSuite) TestScheduleSurvey() {
	s.Run("creates the survey with the contract field names", func() {
		w := s.do(http.MethodPost, "/surveys", map[string]any{
			"surveyId":      "SV1",
			"vesselId":      "V1",
			"surveyType":    "annual",
			"scheduledDate": "2026-05-01",
			"surveyorName":  "Inspector Raka",
		})
		s.Require().Equal(http.StatusCreated, w.Code)

		data := s.data(w)
		s.Equal("SV1", data["id"])
		s.Equal("V1", data["vesselId"])
		s.Equal("scheduled", data["status"])
		s.Equal("survey", data["recordKind"])
		s.Equal("AUTH001", data["scheduledBy"])
		s.Equal([]any{}, data["findings"])
	})

	s.Run("unknown survey type is a 400", func() {
		w := s.do(http.MethodPost, "/surveys", map[string]any{
			"surveyId":      "SV2",
			"vesselId":      "V1",
			"surveyType":    "quarterly",
			"scheduledDate": "2026-05-01",
			"surveyorName":  "Inspector Raka",
		})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unknown vessel is a 404", func() {
		w := s.do(http.MethodPost, "/surveys", map[string]any{
			"surveyId":      "SV3",
			"vesselId":      "ghost",
			"surveyType":    "annual",
			"scheduledDate": "2026-05-01",
			"surveyorName":  "Inspector Raka",
		})
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *SurveyHandlerSuite) TestStartSurvey() {
	s.schedule("SV1")

	w := s.do(http.MethodPut, "/surveys/SV1/start", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("in-progress", s.data(w)["status"])

	// Second start violates the state machine and maps to 409.
	w = s.do(http.MethodPut, "/surveys/SV1/start", nil)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *SurveyHandlerSuite) TestFindingLifecycle() {
	s.schedule("SV1")
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/surveys/SV1/start", nil).Code)

	w := s.do(http.MethodPost, "/surveys/SV1/findings", map[string]any{
		"findingId":   "F1",
		"description": "Corroded hull plate",
		"severity":    "major",
		"location":    "hull, frame 12",
		"requirement": "SOLAS II-1",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal("open", s.data(w)["status"])

	w = s.do(http.MethodPut, "/surveys/SV1/findings/F1/resolve", map[string]any{
		"resolutionDescription": "Plate replaced",
		"evidenceUrl":           "https://evidence.example/F1.jpg",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("resolved", s.data(w)["status"])

	w = s.do(http.MethodPut, "/surveys/SV1/findings/F1/verify", map[string]any{
		"verificationNotes": "re-inspected",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("verified", s.data(w)["status"])

	w = s.do(http.MethodGet, "/surveys/SV1/findings", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Data, 1)
	s.Equal("F1", resp.Data[0]["id"])
}

func (s *SurveyHandlerSuite) TestResolveRequiresDescription() {
	s.schedule("SV1")
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/surveys/SV1/start", nil).Code)

	w := s.do(http.MethodPut, "/surveys/SV1/findings/F1/resolve", map[string]any{
		"evidenceUrl": "https://evidence.example/F1.jpg",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}
