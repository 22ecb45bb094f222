// Package store persists survey aggregates (findings included) in the
// ledger keyspace.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"shipcertify/internal/ledger"
	"shipcertify/internal/survey/models"
	"shipcertify/pkg/domain"
)

type Store struct {
	ledger ledger.Ledger
}

func New(l ledger.Ledger) *Store {
	return &Store{ledger: l}
}

// Save rewrites the whole survey record. Findings are embedded, so every
// finding mutation comes through here.
func (s *Store) Save(ctx context.Context, survey *models.Survey) error {
	return ledger.PutAs(ctx, s.ledger, survey.ID, survey)
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Survey, error) {
	var survey models.Survey
	if err := ledger.GetAs(ctx, s.ledger, id, domain.KindSurvey, &survey); err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s *Store) List(ctx context.Context) ([]*models.Survey, error) {
	surveys := []*models.Survey{}
	err := ledger.ScanKind(ctx, s.ledger, domain.KindSurvey, func(key string, value []byte) error {
		var survey models.Survey
		if err := json.Unmarshal(value, &survey); err != nil {
			return fmt.Errorf("decode survey %s: %w", key, err)
		}
		surveys = append(surveys, &survey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return surveys, nil
}
