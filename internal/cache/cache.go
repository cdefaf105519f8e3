package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Backend is a key-value store with per-key expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Outcome reports how a cache side effect went. Callers may log it but must
// never turn a failed Outcome into a request failure.
type Outcome struct {
	Op   string
	Key  string
	Keys int
	Err  error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// GetJSON decodes a cached value into dst. Backend and decode failures are
// reported as a miss with a failed Outcome.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, Outcome) {
	out := Outcome{Op: "get", Key: key, Keys: 1}

	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		out.Err = err
		return false, out
	}
	if !ok {
		return false, out
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		out.Err = fmt.Errorf("decode cached value: %w", err)
		return false, out
	}
	return true, out
}

func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) Outcome {
	out := Outcome{Op: "set", Key: key, Keys: 1}

	raw, err := json.Marshal(value)
	if err != nil {
		out.Err = fmt.Errorf("encode cache value: %w", err)
		return out
	}
	out.Err = s.backend.Set(ctx, key, raw, ttl)
	return out
}

func (s *Store) Invalidate(ctx context.Context, keys ...string) Outcome {
	out := Outcome{Op: "delete", Keys: len(keys)}
	if len(keys) > 0 {
		out.Key = keys[0]
	}
	if len(keys) == 0 {
		return out
	}
	out.Err = s.backend.Delete(ctx, keys...)
	return out
}
