package repository

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/store"
)

// UserRepository owns the campus_users collection.
type UserRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(kv store.KV, logger *zap.Logger) *UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserRepository{kv: kv, logger: logger}
}

// List returns every user in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return loadCollection[models.User](ctx, r.kv, usersKey, r.logger), nil
}

// FindByEmail returns the user with the given email (case-insensitive) or
// ErrNoRecord.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users := loadCollection[models.User](ctx, r.kv, usersKey, r.logger)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrNoRecord
}

// FindByID returns the user with the given id or ErrNoRecord.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	users := loadCollection[models.User](ctx, r.kv, usersKey, r.logger)
	for i := range users {
		if users[i].ID == id {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrNoRecord
}

// Insert appends a new user and writes the collection back.
func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	users := loadCollection[models.User](ctx, r.kv, usersKey, r.logger)
	users = append(users, *user)
	return saveCollection(ctx, r.kv, usersKey, users)
}
