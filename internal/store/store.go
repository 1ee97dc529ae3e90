package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("store: key not found")

// KV is the persistence port the repositories write through. Collections are
// serialized as JSON blobs under stable keys; the store itself is not
// transactional and offers no cross-key guarantees.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
