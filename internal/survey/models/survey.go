// Package models holds the survey aggregate and its embedded findings.
// JSON field names and the status vocabulary are part of the exposed
// contract; do not rename them.
package models

import (
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// SurveyStatus is the lifecycle state of a survey.
// Transitions: scheduled → in-progress → completed, strictly forward.
// Completion is never invoked directly; it is a side effect of certificate
// issuance.
type SurveyStatus string

const (
	SurveyStatusScheduled  SurveyStatus = "scheduled"
	SurveyStatusInProgress SurveyStatus = "in-progress"
	SurveyStatusCompleted  SurveyStatus = "completed"
)

// Survey is the aggregate root for one inspection event against a vessel.
//
// Invariants:
//   - VesselID referenced a vessel that existed at scheduling time
//   - Findings never contains two entries with the same id
//   - Status only moves forward along scheduled → in-progress → completed
type Survey struct {
	ID            string            `json:"id"`
	VesselID      string            `json:"vesselId"`
	SurveyType    domain.SurveyType `json:"surveyType"`
	ScheduledDate string            `json:"scheduledDate"`
	SurveyorName  string            `json:"surveyorName"`
	Status        SurveyStatus      `json:"status"`
	RecordKind    domain.RecordKind `json:"recordKind"`
	ScheduledBy   string            `json:"scheduledBy"`
	ScheduledAt   time.Time         `json:"scheduledAt"`
	StartedBy     string            `json:"startedBy,omitempty"`
	StartedAt     *time.Time        `json:"startedAt,omitempty"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty"`
	CertificateID string            `json:"certificateId,omitempty"`
	Findings      []Finding         `json:"findings"`
}

func NewSurvey(id, vesselID string, surveyType domain.SurveyType, scheduledDate, surveyorName, scheduledBy string, now time.Time) (*Survey, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "survey id cannot be empty")
	}
	if vesselID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel id cannot be empty")
	}
	if scheduledDate == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "scheduled date cannot be empty")
	}
	if surveyorName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "surveyor name cannot be empty")
	}
	return &Survey{
		ID:            id,
		VesselID:      vesselID,
		SurveyType:    surveyType,
		ScheduledDate: scheduledDate,
		SurveyorName:  surveyorName,
		Status:        SurveyStatusScheduled,
		RecordKind:    domain.KindSurvey,
		ScheduledBy:   scheduledBy,
		ScheduledAt:   now,
		Findings:      []Finding{},
	}, nil
}

// CanStart checks the scheduled → in-progress transition.
func (s *Survey) CanStart() error {
	if s.Status != SurveyStatusScheduled {
		return dErrors.Newf(dErrors.CodeInvalidState, "survey %s is not in scheduled status", s.ID)
	}
	return nil
}

// ApplyStart transitions the survey to in-progress. Call CanStart first.
func (s *Survey) ApplyStart(startedBy string, now time.Time) {
	s.Status = SurveyStatusInProgress
	s.StartedBy = startedBy
	s.StartedAt = &now
}

// CanAddFinding checks that the survey accepts new findings and that the
// finding id keeps the uniqueness invariant.
func (s *Survey) CanAddFinding(findingID string) error {
	if s.Status != SurveyStatusInProgress {
		return dErrors.Newf(dErrors.CodeInvalidState, "survey %s is not in progress", s.ID)
	}
	if _, ok := s.FindingByID(findingID); ok {
		return dErrors.Newf(dErrors.CodeConflict, "finding %s already exists in survey %s", findingID, s.ID)
	}
	return nil
}

// AppendFinding adds a finding to the aggregate. Call CanAddFinding first.
func (s *Survey) AppendFinding(finding Finding) {
	s.Findings = append(s.Findings, finding)
}

// FindingByID returns a pointer into the findings sequence so transitions
// mutate the aggregate in place.
func (s *Survey) FindingByID(findingID string) (*Finding, bool) {
	for i := range s.Findings {
		if s.Findings[i].ID == findingID {
			return &s.Findings[i], true
		}
	}
	return nil, false
}

// UnverifiedFindings returns the findings still blocking certificate
// issuance: anything open or resolved but not yet verified.
func (s *Survey) UnverifiedFindings() []Finding {
	var blocking []Finding
	for _, f := range s.Findings {
		if !f.IsVerified() {
			blocking = append(blocking, f)
		}
	}
	return blocking
}

// CanComplete checks the issuance gate: every finding must be verified.
func (s *Survey) CanComplete() error {
	if s.Status == SurveyStatusCompleted {
		return dErrors.Newf(dErrors.CodeInvalidState, "survey %s is already completed", s.ID)
	}
	if len(s.UnverifiedFindings()) > 0 {
		return dErrors.New(dErrors.CodePreconditionFailed, "cannot issue certificate while there are unverified findings")
	}
	return nil
}

// ApplyCompletion marks the survey completed and links the issued
// certificate. Call CanComplete first.
func (s *Survey) ApplyCompletion(certificateID string, now time.Time) {
	s.Status = SurveyStatusCompleted
	s.CompletedAt = &now
	s.CertificateID = certificateID
}
