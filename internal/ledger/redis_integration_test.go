//go:build integration

package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"shipcertify/pkg/platform/sentinel"
	"shipcertify/pkg/testutil/containers"
)

type RedisLedgerSuite struct {
	suite.Suite
	container *containers.RedisContainer
	ledger    *Redis
	ctx       context.Context
}

func (s *RedisLedgerSuite) SetupSuite() {
	s.container = containers.NewRedisContainer(s.T())
	s.ctx = context.Background()
}

func (s *RedisLedgerSuite) SetupTest() {
	s.Require().NoError(s.container.FlushAll(s.ctx))
	s.ledger = NewRedis(s.container.Client)
}

func TestRedisLedgerSuite(t *testing.T) {
	suite.Run(t, new(RedisLedgerSuite))
}

func (s *RedisLedgerSuite) TestGetAndPut() {
	s.Run("round-trips a value", func() {
		s.Require().NoError(s.ledger.Put(s.ctx, "V1", []byte(`{"id":"V1"}`)))

		value, err := s.ledger.Get(s.ctx, "V1")
		s.Require().NoError(err)
		s.JSONEq(`{"id":"V1"}`, string(value))
	})

	s.Run("returns ErrNotFound for missing key", func() {
		_, err := s.ledger.Get(s.ctx, "absent")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("overwrites an existing key silently", func() {
		s.Require().NoError(s.ledger.Put(s.ctx, "V2", []byte(`{"v":1}`)))
		s.Require().NoError(s.ledger.Put(s.ctx, "V2", []byte(`{"v":2}`)))

		value, err := s.ledger.Get(s.ctx, "V2")
		s.Require().NoError(err)
		s.JSONEq(`{"v":2}`, string(value))
	})
}

func (s *RedisLedgerSuite) TestScan() {
	s.Run("visits keys in lexical order", func() {
		s.Require().NoError(s.ledger.Put(s.ctx, "vessel:V2", []byte(`2`)))
		s.Require().NoError(s.ledger.Put(s.ctx, "survey:S1", []byte(`1`)))
		s.Require().NoError(s.ledger.Put(s.ctx, "vessel:V1", []byte(`3`)))

		var keys []string
		err := s.ledger.Scan(s.ctx, func(key string, _ []byte) error {
			keys = append(keys, key)
			return nil
		})
		s.Require().NoError(err)
		s.Equal([]string{"survey:S1", "vessel:V1", "vessel:V2"}, keys)
	})

	s.Run("empty ledger scans nothing", func() {
		called := false
		err := s.ledger.Scan(s.ctx, func(string, []byte) error {
			called = true
			return nil
		})
		s.Require().NoError(err)
		s.False(called)
	})

	s.Run("ignores keys outside the ledger prefix", func() {
		s.Require().NoError(s.container.Client.Set(s.ctx, "unrelated", "x", 0).Err())
		s.Require().NoError(s.ledger.Put(s.ctx, "vessel:V1", []byte(`1`)))

		var keys []string
		err := s.ledger.Scan(s.ctx, func(key string, _ []byte) error {
			keys = append(keys, key)
			return nil
		})
		s.Require().NoError(err)
		s.Equal([]string{"vessel:V1"}, keys)
	})
}

func (s *RedisLedgerSuite) TestRunInTx() {
	s.Run("commits staged writes together", func() {
		err := s.ledger.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.ledger.Put(ctx, "cert:C1", []byte(`{"id":"C1"}`)); err != nil {
				return err
			}
			return s.ledger.Put(ctx, "survey:S1", []byte(`{"id":"S1"}`))
		})
		s.Require().NoError(err)

		value, err := s.ledger.Get(s.ctx, "cert:C1")
		s.Require().NoError(err)
		s.JSONEq(`{"id":"C1"}`, string(value))
	})

	s.Run("a failing callback writes nothing", func() {
		wantErr := fmt.Errorf("survey write refused")
		err := s.ledger.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.ledger.Put(ctx, "cert:C2", []byte(`{"id":"C2"}`)); err != nil {
				return err
			}
			return wantErr
		})
		s.Require().ErrorIs(err, wantErr)

		_, err = s.ledger.Get(s.ctx, "cert:C2")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
