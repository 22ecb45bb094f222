package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipcertify/pkg/platform/sentinel"
	txcontext "shipcertify/pkg/platform/tx"
)

// Postgres persists the ledger in a single key→value table. It joins any SQL
// transaction carried in context (pkg/platform/tx), which is how certificate
// issuance writes the survey and the certificate atomically.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS ledger_records (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the backing table if it does not exist.
func (l *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *Postgres) conn(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return l.db
}

func (l *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := l.conn(ctx).QueryRowContext(ctx,
		`SELECT value FROM ledger_records WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("ledger get %s: %w", key, err)
	}
	return value, nil
}

func (l *Postgres) Put(ctx context.Context, key string, value []byte) error {
	_, err := l.conn(ctx).ExecContext(ctx,
		`INSERT INTO ledger_records (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("ledger put %s: %w", key, err)
	}
	return nil
}

func (l *Postgres) Scan(ctx context.Context, fn func(key string, value []byte) error) error {
	rows, err := l.conn(ctx).QueryContext(ctx,
		`SELECT key, value FROM ledger_records ORDER BY key`)
	if err != nil {
		return fmt.Errorf("ledger scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("ledger scan row: %w", err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ledger scan rows: %w", err)
	}
	return nil
}
