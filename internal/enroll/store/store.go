// Package store persists enrolled users in the ledger keyspace. Users are
// keyed by a prefixed username so logins never collide with party ids.
package store

import (
	"context"

	"shipcertify/internal/enroll/models"
	"shipcertify/internal/ledger"
	"shipcertify/pkg/domain"
)

const keyPrefix = "user:"

type Store struct {
	ledger ledger.Ledger
}

func New(l ledger.Ledger) *Store {
	return &Store{ledger: l}
}

func (s *Store) Save(ctx context.Context, user *models.User) error {
	return ledger.PutAs(ctx, s.ledger, keyPrefix+user.Username, user)
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := ledger.GetAs(ctx, s.ledger, keyPrefix+username, domain.KindUser, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
