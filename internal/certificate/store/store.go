// Package store persists certificate records in the ledger keyspace.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"shipcertify/internal/certificate/models"
	"shipcertify/internal/ledger"
	"shipcertify/pkg/domain"
)

type Store struct {
	ledger ledger.Ledger
}

func New(l ledger.Ledger) *Store {
	return &Store{ledger: l}
}

func (s *Store) Save(ctx context.Context, cert *models.Certificate) error {
	return ledger.PutAs(ctx, s.ledger, cert.ID, cert)
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := ledger.GetAs(ctx, s.ledger, id, domain.KindCertificate, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

func (s *Store) List(ctx context.Context) ([]*models.Certificate, error) {
	certs := []*models.Certificate{}
	err := ledger.ScanKind(ctx, s.ledger, domain.KindCertificate, func(key string, value []byte) error {
		var cert models.Certificate
		if err := json.Unmarshal(value, &cert); err != nil {
			return fmt.Errorf("decode certificate %s: %w", key, err)
		}
		certs = append(certs, &cert)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}
