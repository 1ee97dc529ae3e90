package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/store"
)

// RegistrationRepository owns the event_registrations collection.
type RegistrationRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(kv store.KV, logger *zap.Logger) *RegistrationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationRepository{kv: kv, logger: logger}
}

// List returns every registration in insertion order.
func (r *RegistrationRepository) List(ctx context.Context) ([]models.Registration, error) {
	return loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger), nil
}

// FindByID returns the registration with the given id or ErrNoRecord.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	for i := range regs {
		if regs[i].ID == id {
			reg := regs[i]
			return &reg, nil
		}
	}
	return nil, ErrNoRecord
}

// ListByEvent returns registrations referencing the event.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	var matched []models.Registration
	for _, reg := range regs {
		if reg.EventID == eventID {
			matched = append(matched, reg)
		}
	}
	return matched, nil
}

// ListByStudent returns registrations made by the student email.
func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentEmail string) ([]models.Registration, error) {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	var matched []models.Registration
	for _, reg := range regs {
		if reg.StudentEmail == studentEmail {
			matched = append(matched, reg)
		}
	}
	return matched, nil
}

// Insert appends a new registration and writes the collection back.
func (r *RegistrationRepository) Insert(ctx context.Context, reg *models.Registration) error {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	regs = append(regs, *reg)
	return saveCollection(ctx, r.kv, registrationsKey, regs)
}

// Update replaces the stored registration with the same id, or ErrNoRecord.
func (r *RegistrationRepository) Update(ctx context.Context, reg *models.Registration) error {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	for i := range regs {
		if regs[i].ID == reg.ID {
			regs[i] = *reg
			return saveCollection(ctx, r.kv, registrationsKey, regs)
		}
	}
	return ErrNoRecord
}

// Delete removes the registration with the given id, or ErrNoRecord.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	for i := range regs {
		if regs[i].ID == id {
			regs = append(regs[:i], regs[i+1:]...)
			return saveCollection(ctx, r.kv, registrationsKey, regs)
		}
	}
	return ErrNoRecord
}

// DeleteByEvent removes every registration referencing the event and returns
// how many were removed. Used by the cascade when an event is deleted.
func (r *RegistrationRepository) DeleteByEvent(ctx context.Context, eventID string) (int, error) {
	regs := loadCollection[models.Registration](ctx, r.kv, registrationsKey, r.logger)
	kept := regs[:0]
	removed := 0
	for _, reg := range regs {
		if reg.EventID == eventID {
			removed++
			continue
		}
		kept = append(kept, reg)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, saveCollection(ctx, r.kv, registrationsKey, kept)
}
