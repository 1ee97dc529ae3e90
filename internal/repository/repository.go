package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/store"
)

// ErrNoRecord is the sentinel returned when a record id or email does not
// exist in its collection. Services translate it into a typed NotFound.
var ErrNoRecord = errors.New("record not found")

// Stable store keys for the persisted collections.
const (
	eventsKey        = "admin_events"
	registrationsKey = "event_registrations"
	usersKey         = "campus_users"
	activitiesKey    = "admin_activities"
)

// loadCollection decodes the JSON array stored under key. A missing key or a
// corrupt payload yields an empty collection, never an error; availability is
// favored over strict correctness for reads.
func loadCollection[T any](ctx context.Context, kv store.KV, key string, logger *zap.Logger) []T {
	data, err := kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) && logger != nil {
			logger.Warn("store read failed, treating collection as empty",
				zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		if logger != nil {
			logger.Warn("corrupt collection payload, treating as empty",
				zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	return items
}

// saveCollection re-serializes the whole collection and overwrites the key.
// Every mutation goes through here as its last step (write-through).
func saveCollection[T any](ctx context.Context, kv store.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("persist collection %s: %w", key, err)
	}
	return nil
}
