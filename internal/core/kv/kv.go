// Package kv defines the durable key-value store used for user preferences
// and host runtime flags, plus a typed, namespaced view over it.
package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Entry is a stored value with its timestamps.
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// KV stores JSON values by string key. Get on a missing key returns an
// error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
	GetRaw(ctx context.Context, key string) (Entry, error)
}

// Namespace is a typed view of a KV whose keys are stored as "name:key".
type Namespace[T any] struct {
	store KV
	name  string
}

// Scoped returns the namespace name of store holding values of type T.
func Scoped[T any](store KV, name string) *Namespace[T] {
	return &Namespace[T]{store: store, name: name}
}

// Key returns the key as stored in the underlying KV.
func (n *Namespace[T]) Key(key string) string {
	return n.name + ":" + key
}

// Get decodes the value under key. A missing key is sql.ErrNoRows.
func (n *Namespace[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	err := n.store.Get(ctx, n.Key(key), &v)
	return v, err
}

// Lookup is Get with a missing key reported as ok=false instead of an error.
func (n *Namespace[T]) Lookup(ctx context.Context, key string) (v T, ok bool, err error) {
	v, err = n.Get(ctx, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		var zero T
		return zero, false, nil
	case err != nil:
		return v, false, err
	}
	return v, true, nil
}

func (n *Namespace[T]) Set(ctx context.Context, key string, value T) error {
	return n.store.Set(ctx, n.Key(key), value)
}

func (n *Namespace[T]) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.Key(key))
}

func (n *Namespace[T]) Has(ctx context.Context, key string) (bool, error) {
	return n.store.Has(ctx, n.Key(key))
}

// Raw returns the stored entry without decoding it.
func (n *Namespace[T]) Raw(ctx context.Context, key string) (Entry, error) {
	return n.store.GetRaw(ctx, n.Key(key))
}
