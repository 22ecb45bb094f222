package models

import (
	"time"

	"shipcertify/pkg/domain"
	dErrors "shipcertify/pkg/domain-errors"
)

// VesselStatus is the lifecycle status of a vessel record. Only `registered`
// is reachable through the current operations; the type exists so the status
// vocabulary stays explicit in the stored record.
type VesselStatus string

const (
	VesselStatusRegistered VesselStatus = "registered"
)

// Vessel is a registered vessel record.
//
// Invariants:
//   - ShipOwnerID referenced a ShipOwner that existed at creation time
//     (checked by the service at registration, not enforced afterward)
//   - ID, Name, Type, IMONumber, Flag are non-empty
type Vessel struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	IMONumber    string            `json:"imoNumber"`
	Flag         string            `json:"flag"`
	BuildYear    int               `json:"buildYear"`
	ShipOwnerID  string            `json:"shipOwnerId"`
	Status       VesselStatus      `json:"status"`
	RecordKind   domain.RecordKind `json:"recordKind"`
	RegisteredBy string            `json:"registeredBy"`
	RegisteredAt time.Time         `json:"registeredAt"`
}

func NewVessel(id, name, vesselType, imoNumber, flag string, buildYear int, shipOwnerID, registeredBy string, now time.Time) (*Vessel, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel id cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel name cannot be empty")
	}
	if vesselType == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel type cannot be empty")
	}
	if imoNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel IMO number cannot be empty")
	}
	if flag == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vessel flag cannot be empty")
	}
	if shipOwnerID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ship owner id cannot be empty")
	}
	return &Vessel{
		ID:           id,
		Name:         name,
		Type:         vesselType,
		IMONumber:    imoNumber,
		Flag:         flag,
		BuildYear:    buildYear,
		ShipOwnerID:  shipOwnerID,
		Status:       VesselStatusRegistered,
		RecordKind:   domain.KindVessel,
		RegisteredBy: registeredBy,
		RegisteredAt: now,
	}, nil
}

// OwnedBy reports whether the vessel belongs to the given ship owner.
// Exact equality on the canonical owner id, never substring matching.
func (v *Vessel) OwnedBy(shipOwnerID string) bool {
	return shipOwnerID != "" && v.ShipOwnerID == shipOwnerID
}
