package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/store"
)

// activityFeedLimit caps the admin_activities collection; older entries are
// dropped from the tail.
const activityFeedLimit = 100

// ActivityRepository owns the admin activity feed.
type ActivityRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(kv store.KV, logger *zap.Logger) *ActivityRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRepository{kv: kv, logger: logger}
}

// List returns the feed, newest first.
func (r *ActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	return loadCollection[models.Activity](ctx, r.kv, activitiesKey, r.logger), nil
}

// Record prepends an entry and trims the feed to its cap.
func (r *ActivityRepository) Record(ctx context.Context, activity models.Activity) error {
	feed := loadCollection[models.Activity](ctx, r.kv, activitiesKey, r.logger)
	feed = append([]models.Activity{activity}, feed...)
	if len(feed) > activityFeedLimit {
		feed = feed[:activityFeedLimit]
	}
	return saveCollection(ctx, r.kv, activitiesKey, feed)
}
