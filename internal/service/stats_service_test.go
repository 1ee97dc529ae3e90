package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/repository"
	"github.com/campus-spark/events-api/internal/store"
)

type fakeCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	if data, ok := f.entries[key]; ok {
		return data, nil
	}
	return nil, store.ErrKeyNotFound
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.entries == nil {
		f.entries = make(map[string][]byte)
	}
	f.entries[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	f.deletes++
	return nil
}

func statsFixture(t *testing.T, cache StatsCache) (*StatsService, *repository.EventRepository, *repository.RegistrationRepository) {
	t.Helper()
	kv := store.NewMemory()
	events := repository.NewEventRepository(kv, zap.NewNop())
	regs := repository.NewRegistrationRepository(kv, zap.NewNop())
	return NewStatsService(events, regs, cache, time.Minute, zap.NewNop()), events, regs
}

func seedCatalog(t *testing.T, events *repository.EventRepository, regs *repository.RegistrationRepository) {
	t.Helper()
	ctx := context.Background()
	future := time.Now().UTC().Add(72 * time.Hour).Format(models.DateLayout)
	past := time.Now().UTC().Add(-72 * time.Hour).Format(models.DateLayout)

	require.NoError(t, events.Insert(ctx, &models.Event{
		ID: "evt-future", Title: "Hackathon", Date: future, Time: "09:00",
		MaxCapacity: 10, CreatedBy: "admin@campus.edu",
	}))
	require.NoError(t, events.Insert(ctx, &models.Event{
		ID: "evt-past", Title: "Orientation", Date: past, Time: "09:00",
		MaxCapacity: 4, CreatedBy: "admin@campus.edu",
	}))

	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r1", EventID: "evt-future", StudentEmail: "asha@campus.edu",
	}))
	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r2", EventID: "evt-past", StudentEmail: "asha@campus.edu",
		Attended: true, FeedbackGiven: true,
	}))
	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r3", EventID: "evt-past", StudentEmail: "ravi@campus.edu", Attended: true,
	}))
}

func TestStudentStats(t *testing.T) {
	svc, events, regs := statsFixture(t, nil)
	seedCatalog(t, events, regs)

	stats, err := svc.StudentStats(context.Background(), "asha@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Registered)
	assert.Equal(t, 1, stats.Attended)
	assert.Equal(t, 1, stats.Feedbacks)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Upcoming)
}

func TestAdminStats(t *testing.T) {
	svc, events, regs := statsFixture(t, nil)
	seedCatalog(t, events, regs)

	stats, err := svc.AdminStats(context.Background(), "admin@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EventsCreated)
	assert.Equal(t, 3, stats.TotalRegistrations)
	assert.Equal(t, 1, stats.ActiveEvents)
	assert.Equal(t, 1, stats.CompletedEvents)

	empty, err := svc.AdminStats(context.Background(), "other@campus.edu")
	require.NoError(t, err)
	assert.Zero(t, empty.EventsCreated)
}

func TestDashboardAggregatesAndCaches(t *testing.T) {
	cache := &fakeCache{}
	svc, events, regs := statsFixture(t, cache)
	seedCatalog(t, events, regs)
	ctx := context.Background()

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 3, stats.TotalRegistrations)
	assert.Equal(t, 1, stats.FeedbacksReceived)
	require.Len(t, stats.EventFills, 2)
	assert.Equal(t, 1, cache.sets)

	// An out-of-band repository write is served from cache until invalidated.
	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r4", EventID: "evt-future", StudentEmail: "new@campus.edu",
	}))
	cached, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cached.TotalRegistrations)
	assert.Equal(t, 1, cache.sets)

	svc.Invalidate(ctx)
	assert.Equal(t, 1, cache.deletes)
	fresh, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.TotalRegistrations)
	assert.Equal(t, 2, cache.sets)
}

func TestDashboardRefreshesAfterLedgerMutation(t *testing.T) {
	cache := &fakeCache{}
	svc, events, regs := statsFixture(t, cache)
	seedCatalog(t, events, regs)
	ctx := context.Background()

	ledger := NewLedgerService(events, regs, nil, svc, nil, zap.NewNop())

	before, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, before.TotalRegistrations)

	_, err = ledger.Register(ctx, "evt-future", models.StudentInfo{
		Name: "Kiran Rao", Email: "kiran@campus.edu", Phone: "9000000000", College: "Engineering",
	})
	require.NoError(t, err)

	after, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, after.TotalRegistrations)

	require.NoError(t, ledger.CancelRegistration(ctx, "r1"))
	final, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, final.TotalRegistrations)
}
