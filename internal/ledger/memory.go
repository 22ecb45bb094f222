package ledger

import (
	"context"
	"sort"
	"sync"

	"shipcertify/pkg/platform/sentinel"
)

// InMemory keeps the ledger in a process-local map. It intentionally favors
// clarity over performance and is the default backend for development and
// unit tests.
type InMemory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string][]byte)}
}

func (l *InMemory) Get(ctx context.Context, key string) ([]byte, error) {
	if buf, ok := bufferFrom(ctx); ok {
		if value, staged := buf.get(key); staged {
			cp := make([]byte, len(value))
			copy(cp, value)
			return cp, nil
		}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	value, ok := l.records[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (l *InMemory) Put(ctx context.Context, key string, value []byte) error {
	if buf, ok := bufferFrom(ctx); ok {
		buf.put(key, value)
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	l.records[key] = cp
	return nil
}

// RunInTx stages the callback's writes in a context-scoped buffer and
// applies them under a single lock acquisition, so an error part way through
// leaves the ledger untouched. Reads inside the callback see staged writes;
// Scan does not.
func (l *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	buf := newTxBuffer()
	if err := fn(withBuffer(ctx, buf)); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range buf.keys {
		l.records[key] = buf.writes[key]
	}
	return nil
}

// Scan snapshots the keyspace under the read lock, then visits entries in
// ascending key order so results are stable across calls.
func (l *InMemory) Scan(ctx context.Context, fn func(key string, value []byte) error) error {
	l.mu.RLock()
	keys := make([]string, 0, len(l.records))
	for k := range l.records {
		keys = append(keys, k)
	}
	snapshot := make(map[string][]byte, len(l.records))
	for k, v := range l.records {
		snapshot[k] = v
	}
	l.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k, snapshot[k]); err != nil {
			return err
		}
	}
	return nil
}
