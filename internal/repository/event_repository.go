package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/store"
)

// EventRepository owns the admin_events collection. Insertion order is the
// stable list order.
type EventRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(kv store.KV, logger *zap.Logger) *EventRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRepository{kv: kv, logger: logger}
}

// List returns all events in insertion order.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	return loadCollection[models.Event](ctx, r.kv, eventsKey, r.logger), nil
}

// FindByID returns the event with the given id or ErrNoRecord.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	events := loadCollection[models.Event](ctx, r.kv, eventsKey, r.logger)
	for i := range events {
		if events[i].ID == id {
			event := events[i]
			return &event, nil
		}
	}
	return nil, ErrNoRecord
}

// Insert appends a new event and writes the collection back.
func (r *EventRepository) Insert(ctx context.Context, event *models.Event) error {
	events := loadCollection[models.Event](ctx, r.kv, eventsKey, r.logger)
	events = append(events, *event)
	return saveCollection(ctx, r.kv, eventsKey, events)
}

// Update replaces the stored event with the same id, or ErrNoRecord.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	events := loadCollection[models.Event](ctx, r.kv, eventsKey, r.logger)
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = *event
			return saveCollection(ctx, r.kv, eventsKey, events)
		}
	}
	return ErrNoRecord
}

// Delete removes the event with the given id, or ErrNoRecord.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	events := loadCollection[models.Event](ctx, r.kv, eventsKey, r.logger)
	for i := range events {
		if events[i].ID == id {
			events = append(events[:i], events[i+1:]...)
			return saveCollection(ctx, r.kv, eventsKey, events)
		}
	}
	return ErrNoRecord
}
