package domain

import (
	dErrors "shipcertify/pkg/domain-errors"
)

// Severity grades a finding discovered during a survey.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

var validSeverities = map[Severity]bool{
	SeverityMinor:    true,
	SeverityMajor:    true,
	SeverityCritical: true,
}

// ParseSeverity validates a severity value from external input.
func ParseSeverity(s string) (Severity, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "severity cannot be empty")
	}
	sev := Severity(s)
	if !validSeverities[sev] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported severity %q", s)
	}
	return sev, nil
}

// SurveyType identifies the kind of inspection event.
type SurveyType string

const (
	SurveyTypeHull         SurveyType = "hull"
	SurveyTypeMachinery    SurveyType = "machinery"
	SurveyTypeAnnual       SurveyType = "annual"
	SurveyTypeIntermediate SurveyType = "intermediate"
	SurveyTypeRenewal      SurveyType = "renewal"
)

var validSurveyTypes = map[SurveyType]bool{
	SurveyTypeHull:         true,
	SurveyTypeMachinery:    true,
	SurveyTypeAnnual:       true,
	SurveyTypeIntermediate: true,
	SurveyTypeRenewal:      true,
}

// ParseSurveyType validates a survey type value from external input.
func ParseSurveyType(s string) (SurveyType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "survey type cannot be empty")
	}
	st := SurveyType(s)
	if !validSurveyTypes[st] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported survey type %q", s)
	}
	return st, nil
}

// CertificateType identifies the class of compliance attestation.
type CertificateType string

const (
	CertificateTypeClass    CertificateType = "class"
	CertificateTypeSafety   CertificateType = "safety"
	CertificateTypeLoadLine CertificateType = "load_line"
)

var validCertificateTypes = map[CertificateType]bool{
	CertificateTypeClass:    true,
	CertificateTypeSafety:   true,
	CertificateTypeLoadLine: true,
}

// ParseCertificateType validates a certificate type value from external input.
func ParseCertificateType(s string) (CertificateType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "certificate type cannot be empty")
	}
	ct := CertificateType(s)
	if !validCertificateTypes[ct] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported certificate type %q", s)
	}
	return ct, nil
}
