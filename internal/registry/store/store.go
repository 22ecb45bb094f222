// Package store persists party and vessel records in the ledger keyspace.
// Errors are sentinel errors; the service layer translates them.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"shipcertify/internal/ledger"
	"shipcertify/internal/registry/models"
	"shipcertify/pkg/domain"
)

type Store struct {
	ledger ledger.Ledger
}

func New(l ledger.Ledger) *Store {
	return &Store{ledger: l}
}

func (s *Store) SaveAuthority(ctx context.Context, authority *models.Authority) error {
	return ledger.PutAs(ctx, s.ledger, authority.ID, authority)
}

func (s *Store) FindAuthority(ctx context.Context, id string) (*models.Authority, error) {
	var authority models.Authority
	if err := ledger.GetAs(ctx, s.ledger, id, domain.KindAuthority, &authority); err != nil {
		return nil, err
	}
	return &authority, nil
}

func (s *Store) SaveShipOwner(ctx context.Context, owner *models.ShipOwner) error {
	return ledger.PutAs(ctx, s.ledger, owner.ID, owner)
}

func (s *Store) FindShipOwner(ctx context.Context, id string) (*models.ShipOwner, error) {
	var owner models.ShipOwner
	if err := ledger.GetAs(ctx, s.ledger, id, domain.KindShipOwner, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *Store) ListShipOwners(ctx context.Context) ([]*models.ShipOwner, error) {
	owners := []*models.ShipOwner{}
	err := ledger.ScanKind(ctx, s.ledger, domain.KindShipOwner, func(key string, value []byte) error {
		var owner models.ShipOwner
		if err := json.Unmarshal(value, &owner); err != nil {
			return fmt.Errorf("decode ship owner %s: %w", key, err)
		}
		owners = append(owners, &owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (s *Store) SaveVessel(ctx context.Context, vessel *models.Vessel) error {
	return ledger.PutAs(ctx, s.ledger, vessel.ID, vessel)
}

func (s *Store) FindVessel(ctx context.Context, id string) (*models.Vessel, error) {
	var vessel models.Vessel
	if err := ledger.GetAs(ctx, s.ledger, id, domain.KindVessel, &vessel); err != nil {
		return nil, err
	}
	return &vessel, nil
}

func (s *Store) ListVessels(ctx context.Context) ([]*models.Vessel, error) {
	vessels := []*models.Vessel{}
	err := ledger.ScanKind(ctx, s.ledger, domain.KindVessel, func(key string, value []byte) error {
		var vessel models.Vessel
		if err := json.Unmarshal(value, &vessel); err != nil {
			return fmt.Errorf("decode vessel %s: %w", key, err)
		}
		vessels = append(vessels, &vessel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vessels, nil
}
