package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"shipcertify/pkg/platform/sentinel"
)

type InMemoryLedgerSuite struct {
	suite.Suite
	ledger *InMemory
	ctx    context.Context
}

func (s *InMemoryLedgerSuite) SetupTest() {
	s.ledger = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryLedgerSuite(t *testing.T) {
	suite.Run(t, new(InMemoryLedgerSuite))
}

func (s *InMemoryLedgerSuite) TestGetAndPut() {
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

func (s *InMemoryLedgerSuite) TestScan() {
	s.Run("visits records in ascending key order", func() {
		for _, key := range []string{"C", "A", "B"} {
			s.Require().NoError(s.ledger.Put(s.ctx, key, []byte(key)))
		}

		var seen []string
		err := s.ledger.Scan(s.ctx, func(key string, _ []byte) error {
			seen = append(seen, key)
			return nil
		})
		s.Require().NoError(err)
		s.Equal([]string{"A", "B", "C"}, seen)
	})

	s.Run("propagates callback errors", func() {
		s.Require().NoError(s.ledger.Put(s.ctx, "X", []byte("x")))

		wantErr := fmt.Errorf("stop")
		err := s.ledger.Scan(s.ctx, func(string, []byte) error { return wantErr })
		s.Require().ErrorIs(err, wantErr)
	})

	s.Run("empty ledger scans nothing", func() {
		empty := NewInMemory()
		count := 0
		s.Require().NoError(empty.Scan(s.ctx, func(string, []byte) error {
			count++
			return nil
		}))
		s.Zero(count)
	})
}

func (s *InMemoryLedgerSuite) TestValueIsolation() {
	// Mutating a returned slice must not corrupt the stored record.
	s.Require().NoError(s.ledger.Put(s.ctx, "K", []byte("abc")))

	value, err := s.ledger.Get(s.ctx, "K")
	s.Require().NoError(err)
	value[0] = 'z'

	again, err := s.ledger.Get(s.ctx, "K")
	s.Require().NoError(err)
	s.Equal("abc", string(again))
}

func (s *InMemoryLedgerSuite) TestRunInTx() {
	s.Run("applies every staged write on success", func() {
		err := s.ledger.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.ledger.Put(ctx, "A", []byte("1")); err != nil {
				return err
			}
			return s.ledger.Put(ctx, "B", []byte("2"))
		})
		s.Require().NoError(err)

		for key, want := range map[string]string{"A": "1", "B": "2"} {
			value, err := s.ledger.Get(s.ctx, key)
			s.Require().NoError(err)
			s.Equal(want, string(value))
		}
	})

	s.Run("a failing callback writes nothing", func() {
		wantErr := fmt.Errorf("second write refused")
		err := s.ledger.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.ledger.Put(ctx, "C", []byte("1")); err != nil {
				return err
			}
			return wantErr
		})
		s.Require().ErrorIs(err, wantErr)

		_, err = s.ledger.Get(s.ctx, "C")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("reads inside the transaction see staged writes", func() {
		err := s.ledger.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.ledger.Put(ctx, "D", []byte("staged")); err != nil {
				return err
			}
			value, err := s.ledger.Get(ctx, "D")
			if err != nil {
				return err
			}
			s.Equal("staged", string(value))
			return nil
		})
		s.Require().NoError(err)
	})

	s.Run("staged writes stay invisible outside the transaction", func() {
		entered := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)

		go func() {
			done <- s.ledger.RunInTx(s.ctx, func(ctx context.Context) error {
				if err := s.ledger.Put(ctx, "E", []byte("pending")); err != nil {
					return err
				}
				close(entered)
				<-release
				return nil
			})
		}()

		<-entered
		_, err := s.ledger.Get(s.ctx, "E")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		close(release)
		s.Require().NoError(<-done)

		value, err := s.ledger.Get(s.ctx, "E")
		s.Require().NoError(err)
		s.Equal("pending", string(value))
	})
}
