package domain

import (
	dErrors "shipcertify/pkg/domain-errors"
)

// Organization is the organization credential proving which party a caller
// acts for. Every authenticated request carries exactly one.
type Organization string

const (
	// OrgAuthority is the classification authority: it registers parties and
	// vessels, runs surveys, and issues certificates.
	OrgAuthority Organization = "authority"
	// OrgShipOwner is a ship-owning company: it may resolve findings on its
	// own vessels and read records scoped to them.
	OrgShipOwner Organization = "shipowner"
)

var validOrganizations = map[Organization]bool{
	OrgAuthority: true,
	OrgShipOwner: true,
}

// ParseOrganization constructs an Organization from external input.
// Call from handlers/adapters at trust boundaries; direct casting bypasses
// the allowlist.
func ParseOrganization(s string) (Organization, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "organization cannot be empty")
	}
	o := Organization(s)
	if !validOrganizations[o] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported organization %q", s)
	}
	return o, nil
}

// Identity is the verified caller context passed into every operation.
// SubjectID is the caller's canonical identifier; for ship-owner callers it
// equals the id of their ShipOwner record, which is what ownership checks
// compare against.
type Identity struct {
	SubjectID    string
	Organization Organization
}

func (i Identity) IsAuthority() bool {
	return i.Organization == OrgAuthority
}

func (i Identity) IsShipOwner() bool {
	return i.Organization == OrgShipOwner
}

// IsZero reports whether no authenticated identity is present.
func (i Identity) IsZero() bool {
	return i.SubjectID == "" && i.Organization == ""
}
