package models

import (
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// FindingStatus is the resolution state of a finding.
// Transitions: open → resolved → verified, strictly forward.
type FindingStatus string

const (
	FindingStatusOpen     FindingStatus = "open"
	FindingStatusResolved FindingStatus = "resolved"
	FindingStatusVerified FindingStatus = "verified"
)

// Finding is a defect discovered during a survey. Findings are value-type
// elements of their parent survey's findings sequence; they are never stored
// independently, so every mutation rewrites the whole survey record.
type Finding struct {
	ID                    string          `json:"id"`
	Description           string          `json:"description"`
	Severity              domain.Severity `json:"severity"`
	Location              string          `json:"location"`
	Requirement           string          `json:"requirement"`
	Status                FindingStatus   `json:"status"`
	AddedBy               string          `json:"addedBy"`
	AddedAt               time.Time       `json:"addedAt"`
	ResolutionDescription string          `json:"resolutionDescription,omitempty"`
	EvidenceURL           string          `json:"evidenceUrl,omitempty"`
	ResolvedBy            string          `json:"resolvedBy,omitempty"`
	ResolvedAt            *time.Time      `json:"resolvedAt,omitempty"`
	VerificationNotes     string          `json:"verificationNotes,omitempty"`
	VerifiedBy            string          `json:"verifiedBy,omitempty"`
	VerifiedAt            *time.Time      `json:"verifiedAt,omitempty"`
}

func NewFinding(id, description string, severity domain.Severity, location, requirement, addedBy string, now time.Time) (Finding, error) {
	if id == "" {
		return Finding{}, dErrors.New(dErrors.CodeInvalidInput, "finding id cannot be empty")
	}
	if description == "" {
		return Finding{}, dErrors.New(dErrors.CodeInvalidInput, "finding description cannot be empty")
	}
	return Finding{
		ID:          id,
		Description: description,
		Severity:    severity,
		Location:    location,
		Requirement: requirement,
		Status:      FindingStatusOpen,
		AddedBy:     addedBy,
		AddedAt:     now,
	}, nil
}

// CanResolve checks the open → resolved transition.
func (f *Finding) CanResolve() error {
	if f.Status != FindingStatusOpen {
		return dErrors.Newf(dErrors.CodeInvalidState, "finding %s is not in open status", f.ID)
	}
	return nil
}

// ApplyResolution transitions the finding to resolved. Call CanResolve first.
func (f *Finding) ApplyResolution(resolutionDescription, evidenceURL, resolvedBy string, now time.Time) {
	f.Status = FindingStatusResolved
	f.ResolutionDescription = resolutionDescription
	f.EvidenceURL = evidenceURL
	f.ResolvedBy = resolvedBy
	f.ResolvedAt = &now
}

// CanVerify checks the resolved → verified transition.
func (f *Finding) CanVerify() error {
	if f.Status != FindingStatusResolved {
		return dErrors.Newf(dErrors.CodeInvalidState, "finding %s is not resolved yet", f.ID)
	}
	return nil
}

// ApplyVerification transitions the finding to verified. Call CanVerify first.
func (f *Finding) ApplyVerification(verificationNotes, verifiedBy string, now time.Time) {
	f.Status = FindingStatusVerified
	f.VerificationNotes = verificationNotes
	f.VerifiedBy = verifiedBy
	f.VerifiedAt = &now
}

// IsVerified reports whether the finding has completed its lifecycle.
func (f *Finding) IsVerified() bool {
	return f.Status == FindingStatusVerified
}

// AnnotatedFinding is a finding flattened out of its parent survey for query
// results, carrying the parent context the embedded form loses.
type AnnotatedFinding struct {
	Finding
	SurveyID string `json:"surveyId"`
	VesselID string `json:"vesselId,omitempty"`
}
