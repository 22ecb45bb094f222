// Package models defines the enrolled user record backing gateway logins.
package models

import (
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// User is an enrolled gateway login. PartyID binds the login to its ledger
// party: the authority id for authority users, the ship owner id for ship
// owner users. That party id becomes the subject of issued tokens, so
// ownership checks line up with registry records.
type User struct {
	Username     string              `json:"username"`
	PasswordHash string              `json:"passwordHash"`
	Organization domain.Organization `json:"organization"`
	PartyID      string              `json:"partyId"`
	RecordKind   domain.RecordKind   `json:"recordKind"`
	EnrolledAt   time.Time           `json:"enrolledAt"`
}

func NewUser(username, passwordHash string, organization domain.Organization, partyID string, now time.Time) (*User, error) {
	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password hash cannot be empty")
	}
	if partyID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "party id cannot be empty")
	}
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Organization: organization,
		PartyID:      partyID,
		RecordKind:   domain.KindUser,
		EnrolledAt:   now,
	}, nil
}

// Identity returns the ledger identity this user acts as.
func (u *User) Identity() domain.Identity {
	return domain.Identity{
		SubjectID:    u.PartyID,
		Organization: u.Organization,
	}
}
