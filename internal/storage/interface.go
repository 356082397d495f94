package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written or was removed.
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value slot the journal persists into. Values are
// opaque blobs; callers own serialization.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Provider is a KV with a lifecycle, selected by configuration.
type Provider interface {
	KV

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Keys lists every stored key, used by diagnostics.
	Keys(ctx context.Context) ([]string, error)

	// GetConfigPath returns a non-sensitive identifier of the storage location.
	GetConfigPath() string
}
