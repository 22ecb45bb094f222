package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"shipcertify/pkg/platform/sentinel"
)

// Redis stores ledger records as plain Redis strings under a common prefix.
// Keys are collected with SCAN and sorted client-side to preserve the ordered
// range-scan contract.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "ledger:"}
}

func (l *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if buf, ok := bufferFrom(ctx); ok {
		if value, staged := buf.get(key); staged {
			cp := make([]byte, len(value))
			copy(cp, value)
			return cp, nil
		}
	}
	value, err := l.client.Get(ctx, l.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (l *Redis) Put(ctx context.Context, key string, value []byte) error {
	if buf, ok := bufferFrom(ctx); ok {
		buf.put(key, value)
		return nil
	}
	if err := l.client.Set(ctx, l.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// RunInTx stages the callback's writes and commits them in one MULTI/EXEC,
// so an error inside the callback writes nothing. Reads inside the callback
// see staged writes; Scan does not.
func (l *Redis) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	buf := newTxBuffer()
	if err := fn(withBuffer(ctx, buf)); err != nil {
		return err
	}
	if len(buf.keys) == 0 {
		return nil
	}
	pipe := l.client.TxPipeline()
	for _, key := range buf.keys {
		pipe.Set(ctx, l.prefix+key, buf.writes[key], 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis tx exec: %w", err)
	}
	return nil
}

func (l *Redis) Scan(ctx context.Context, fn func(key string, value []byte) error) error {
	var keys []string
	iter := l.client.Scan(ctx, 0, l.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(keys)

	for _, fullKey := range keys {
		value, err := l.client.Get(ctx, fullKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Deleted between SCAN and GET; skip.
				continue
			}
			return fmt.Errorf("redis get %s: %w", fullKey, err)
		}
		if err := fn(fullKey[len(l.prefix):], value); err != nil {
			return err
		}
	}
	return nil
}
