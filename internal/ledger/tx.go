package ledger

import (
	"context"
	"sync"
)

// txBuffer stages writes for backends without native transactions. Writes
// collect here during RunInTx and apply in one step on success, so a failing
// step inside the callback leaves the ledger untouched. Insertion order is
// preserved for the apply pass.
type txBuffer struct {
	mu     sync.Mutex
	keys   []string
	writes map[string][]byte
}

func newTxBuffer() *txBuffer {
	return &txBuffer{writes: make(map[string][]byte)}
}

func (b *txBuffer) put(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.writes[key]; !ok {
		b.keys = append(b.keys, key)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	b.writes[key] = cp
}

func (b *txBuffer) get(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.writes[key]
	return value, ok
}

type bufferContextKey struct{}

func withBuffer(ctx context.Context, b *txBuffer) context.Context {
	return context.WithValue(ctx, bufferContextKey{}, b)
}

func bufferFrom(ctx context.Context) (*txBuffer, bool) {
	b, ok := ctx.Value(bufferContextKey{}).(*txBuffer)
	return b, ok
}
