// Package audit defines the audit trail emitted from domain logic. Events are
// transport-agnostic so stores and sinks (memory, Kafka) can fan out.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance for the
	// certification trail: registrations, certificate issuance, finding
	// lifecycle. These require long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	// Examples: failed logins, rejected credentials.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event captures one significant action against the certification ledger.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID           string
	Category     EventCategory
	Timestamp    time.Time
	Actor        string // caller subject id
	Organization string // caller organization credential
	Action       string
	Subject      string // id of the affected record
	Kind         string // recordKind of the affected record
	RequestID    string
	Detail       string
}

type AuditEvent string

const (
	// Registry events
	EventAuthorityRegistered AuditEvent = "authority_registered"
	EventShipOwnerRegistered AuditEvent = "shipowner_registered"
	EventVesselRegistered    AuditEvent = "vessel_registered"

	// Survey events
	EventSurveyScheduled AuditEvent = "survey_scheduled"
	EventSurveyStarted   AuditEvent = "survey_started"
	EventFindingAdded    AuditEvent = "finding_added"
	EventFindingResolved AuditEvent = "finding_resolved"
	EventFindingVerified AuditEvent = "finding_verified"

	// Certificate events
	EventCertificateIssued AuditEvent = "certificate_issued"

	// Enrollment events
	EventUserEnrolled   AuditEvent = "user_enrolled"
	EventLoginSucceeded AuditEvent = "login_succeeded"
	EventLoginFailed    AuditEvent = "login_failed"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventAuthorityRegistered: CategoryCompliance,
	EventShipOwnerRegistered: CategoryCompliance,
	EventVesselRegistered:    CategoryCompliance,
	EventSurveyScheduled:     CategoryCompliance,
	EventSurveyStarted:       CategoryCompliance,
	EventFindingAdded:        CategoryCompliance,
	EventFindingResolved:     CategoryCompliance,
	EventFindingVerified:     CategoryCompliance,
	EventCertificateIssued:   CategoryCompliance,

	EventLoginFailed: CategorySecurity,

	EventUserEnrolled:   CategoryOperations,
	EventLoginSucceeded: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor string) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}
