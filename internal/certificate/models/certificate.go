// Package models defines the certificate record and the content hash used
// for tamper detection.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// CertificateStatus is the lifecycle status of a certificate. Certificates
// are issued `active` and never transition; there is no revocation path.
type CertificateStatus string

const (
	CertificateStatusActive CertificateStatus = "active"
)

// Certificate is a time-bounded compliance attestation for a vessel, issued
// against one completed survey. Immutable after issuance.
//
// ValidFrom and ValidTo are calendar dates kept in their original string form
// so the content hash stays byte-stable.
type Certificate struct {
	ID              string                 `json:"id"`
	VesselID        string                 `json:"vesselId"`
	SurveyID        string                 `json:"surveyId"`
	CertificateType domain.CertificateType `json:"certificateType"`
	ValidFrom       string                 `json:"validFrom"`
	ValidTo         string                 `json:"validTo"`
	Status          CertificateStatus      `json:"status"`
	RecordKind      domain.RecordKind      `json:"recordKind"`
	IssuedBy        string                 `json:"issuedBy"`
	IssuedAt        time.Time              `json:"issuedAt"`
	Hash            string                 `json:"hash"`
}

func NewCertificate(id, vesselID, surveyID string, certificateType domain.CertificateType, validFrom, validTo, issuedBy string, now time.Time) (*Certificate, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "certificate id cannot be empty")
	}
	if vesselID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel id cannot be empty")
	}
	if surveyID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "survey id cannot be empty")
	}
	if validFrom == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "validFrom cannot be empty")
	}
	if validTo == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "validTo cannot be empty")
	}
	return &Certificate{
		ID:              id,
		VesselID:        vesselID,
		SurveyID:        surveyID,
		CertificateType: certificateType,
		ValidFrom:       validFrom,
		ValidTo:         validTo,
		Status:          CertificateStatusActive,
		RecordKind:      domain.KindCertificate,
		IssuedBy:        issuedBy,
		IssuedAt:        now,
		Hash:            ComputeHash(id, vesselID, validFrom, validTo),
	}, nil
}

// ComputeHash is the deterministic content digest over the identifying
// fields. Recomputing it from a stored certificate and comparing against the
// stored Hash detects tampering.
func ComputeHash(certificateID, vesselID, validFrom, validTo string) string {
	sum := sha256.Sum256([]byte(certificateID + vesselID + validFrom + validTo))
	return hex.EncodeToString(sum[:])
}

// Verification is the read-only validity summary returned by certificate
// verification.
type Verification struct {
	CertificateID string `json:"certificateId"`
	VesselID      string `json:"vesselId"`
	IsValid       bool   `json:"isValid"`
	ValidTo       string `json:"validTo"`
	Hash          string `json:"hash"`
}

// validToLayout is the calendar-date form of ValidFrom/ValidTo.
const validToLayout = "2006-01-02"

// ValidOn reports whether the certificate is valid at the given instant:
// status active and the instant's calendar date not past ValidTo. An
// unparseable ValidTo never validates.
func (c *Certificate) ValidOn(now time.Time) bool {
	if c.Status != CertificateStatusActive {
		return false
	}
	expiry, err := time.Parse(validToLayout, c.ValidTo)
	if err != nil {
		return false
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !day.After(expiry)
}
