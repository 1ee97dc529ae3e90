package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/store"
)

func TestEventRepositoryCRUD(t *testing.T) {
	kv := store.NewMemory()
	repo := NewEventRepository(kv, zap.NewNop())
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "evt-1")
	assert.ErrorIs(t, err, ErrNoRecord)

	event := &models.Event{ID: "evt-1", Title: "Hackathon", MaxCapacity: 100, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, event))

	found, err := repo.FindByID(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Hackathon", found.Title)

	found.Title = "Hackathon 2026"
	require.NoError(t, repo.Update(ctx, found))
	found, err = repo.FindByID(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Hackathon 2026", found.Title)

	require.NoError(t, repo.Delete(ctx, "evt-1"))
	_, err = repo.FindByID(ctx, "evt-1")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestEventRepositoryCorruptPayloadReadsEmpty(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, eventsKey, []byte("{not json")))

	repo := NewEventRepository(kv, zap.NewNop())
	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	// The next write replaces the corrupt payload with a valid collection.
	require.NoError(t, repo.Insert(ctx, &models.Event{ID: "evt-1", Title: "Fresh Start"}))
	events, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRegistrationRepositoryQueries(t *testing.T) {
	kv := store.NewMemory()
	repo := NewRegistrationRepository(kv, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, &models.Registration{
			ID:           fmt.Sprintf("reg-%d", i),
			EventID:      "evt-1",
			StudentEmail: fmt.Sprintf("s%d@campus.edu", i),
		}))
	}
	require.NoError(t, repo.Insert(ctx, &models.Registration{
		ID:           "reg-other",
		EventID:      "evt-2",
		StudentEmail: "s0@campus.edu",
	}))

	byEvent, err := repo.ListByEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Len(t, byEvent, 3)

	byStudent, err := repo.ListByStudent(ctx, "s0@campus.edu")
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	removed, err := repo.DeleteByEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "reg-other", all[0].ID)
}

func TestUserRepositoryEmailIsCaseInsensitive(t *testing.T) {
	kv := store.NewMemory()
	repo := NewUserRepository(kv, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.User{ID: "u1", Email: "Asha@Campus.edu"}))

	found, err := repo.FindByEmail(ctx, "asha@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@campus.edu")
	assert.ErrorIs(t, err, ErrNoRecord)

	require.NoError(t, repo.Insert(ctx, &models.User{ID: "u2", Email: "ravi@campus.edu"}))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestActivityRepositoryCapsAndOrders(t *testing.T) {
	kv := store.NewMemory()
	repo := NewActivityRepository(kv, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < activityFeedLimit+5; i++ {
		require.NoError(t, repo.Record(ctx, models.Activity{
			ID:      fmt.Sprintf("act-%d", i),
			Type:    models.ActivityRegistration,
			Message: fmt.Sprintf("entry %d", i),
		}))
	}

	feed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, feed, activityFeedLimit)
	assert.Equal(t, fmt.Sprintf("act-%d", activityFeedLimit+4), feed[0].ID)
}
