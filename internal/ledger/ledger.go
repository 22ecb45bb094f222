// Package ledger is the boundary to the durable key→value substrate. All
// records live in one flat keyspace keyed by their own id; kind discrimination
// happens above this layer via the recordKind field inside each value.
//
// Implementations return sentinel errors (pkg/platform/sentinel); services
// translate those into domain errors.
package ledger

import "context"

// Ledger provides durable key→value storage with an ordered range scan.
type Ledger interface {
	// Get returns the value stored under key, or sentinel.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, overwriting any existing value.
	Put(ctx context.Context, key string, value []byte) error
	// Scan visits every stored record in ascending key order. Returning an
	// error from fn stops the scan and propagates the error.
	Scan(ctx context.Context, fn func(key string, value []byte) error) error
}
