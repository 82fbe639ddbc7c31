package store

import "context"

// KV is the durable key-value contract the progression engine persists
// through. Values are opaque serialized text; callers own the encoding.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
