package models

import (
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// ShipOwner is a ship-owning company party record. Its ID is the canonical
// owner identifier every vessel ownership check compares against.
type ShipOwner struct {
	ID           string            `json:"id"`
	Address      string            `json:"address"`
	Name         string            `json:"name"`
	CompanyName  string            `json:"companyName"`
	IsActive     bool              `json:"isActive"`
	RecordKind   domain.RecordKind `json:"recordKind"`
	RegisteredBy string            `json:"registeredBy"`
	RegisteredAt time.Time         `json:"registeredAt"`
}

func NewShipOwner(id, address, name, companyName, registeredBy string, now time.Time) (*ShipOwner, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner id cannot be empty")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner address cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner name cannot be empty")
	}
	if companyName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner company name cannot be empty")
	}
	return &ShipOwner{
		ID:           id,
		Address:      address,
		Name:         name,
		CompanyName:  companyName,
		IsActive:     true,
		RecordKind:   domain.KindShipOwner,
		RegisteredBy: registeredBy,
		RegisteredAt: now,
	}, nil
}
