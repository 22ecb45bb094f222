package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"shipcertify/pkg/domain"
	"shipcertify/pkg/platform/sentinel"
)

// kindProbe decodes just the discriminator of a stored value.
type kindProbe struct {
	RecordKind domain.RecordKind `json:"recordKind"`
}

// GetAs loads the record under key into dst, verifying it carries the
// expected kind. A key holding a record of another kind reports
// sentinel.ErrNotFound: in a flat keyspace, "a vessel with this id" and
// "nothing with this id" are the same fact to callers.
func GetAs(ctx context.Context, l Ledger, key string, kind domain.RecordKind, dst any) error {
	value, err := l.Get(ctx, key)
	if err != nil {
		return err
	}
	var probe kindProbe
	if err := json.Unmarshal(value, &probe); err != nil {
		return fmt.Errorf("decode record %s: %w", key, err)
	}
	if probe.RecordKind != kind {
		return sentinel.ErrNotFound
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("decode record %s: %w", key, err)
	}
	return nil
}

// PutAs marshals src and stores it under key, overwriting any prior value.
func PutAs(ctx context.Context, l Ledger, key string, src any) error {
	value, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", key, err)
	}
	return l.Put(ctx, key, value)
}

// ScanKind visits every stored record of the given kind in key order.
// Records that fail to decode as JSON are skipped, matching the tolerant
// range-scan behavior the query contract specifies.
func ScanKind(ctx context.Context, l Ledger, kind domain.RecordKind, fn func(key string, value []byte) error) error {
	return l.Scan(ctx, func(key string, value []byte) error {
		var probe kindProbe
		if err := json.Unmarshal(value, &probe); err != nil {
			return nil
		}
		if probe.RecordKind != kind {
			return nil
		}
		return fn(key, value)
	})
}
