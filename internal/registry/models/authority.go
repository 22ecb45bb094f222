// Package models holds the party and vessel record types of the
// certification registry. JSON field names and status values are part of the
// exposed contract shared with gateway callers; do not rename them.
package models

import (
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// Authority is a classification-authority party record.
//
// Invariants:
//   - ID, Address, and Name are non-empty
//   - Immutable after creation except IsActive
type Authority struct {
	ID           string            `json:"id"`
	Address      string            `json:"address"`
	Name         string            `json:"name"`
	IsActive     bool              `json:"isActive"`
	RecordKind   domain.RecordKind `json:"recordKind"`
	RegisteredBy string            `json:"registeredBy"`
	RegisteredAt time.Time         `json:"registeredAt"`
}

func NewAuthority(id, address, name, registeredBy string, now time.Time) (*Authority, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "authority id cannot be empty")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "authority address cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "authority name cannot be empty")
	}
	return &Authority{
		ID:           id,
		Address:      address,
		Name:         name,
		IsActive:     true,
		RecordKind:   domain.KindAuthority,
		RegisteredBy: registeredBy,
		RegisteredAt: now,
	}, nil
}
