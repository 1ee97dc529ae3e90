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

func notificationFixture(t *testing.T) (*NotificationService, *repository.EventRepository, *repository.RegistrationRepository) {
	t.Helper()
	kv := store.NewMemory()
	events := repository.NewEventRepository(kv, zap.NewNop())
	regs := repository.NewRegistrationRepository(kv, zap.NewNop())
	return NewNotificationService(events, regs, zap.NewNop()), events, regs
}

func findNotification(items []models.Notification, id string) *models.Notification {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func TestAdminNotificationsCapacityPressure(t *testing.T) {
	svc, events, regs := notificationFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	almostFull := &models.Event{
		ID: "evt-almost", Title: "Robotics Demo", MaxCapacity: 10,
		Date: "2026-04-01", Time: "10:00", CreatedBy: "admin@campus.edu",
	}
	full := &models.Event{
		ID: "evt-full", Title: "AI Summit", MaxCapacity: 2,
		Date: "2026-04-02", Time: "10:00", CreatedBy: "admin@campus.edu",
	}
	require.NoError(t, events.Insert(ctx, almostFull))
	require.NoError(t, events.Insert(ctx, full))

	old := now.Add(-48 * time.Hour)
	for i := 0; i < 8; i++ {
		require.NoError(t, regs.Insert(ctx, &models.Registration{
			ID: string(rune('a'+i)), EventID: "evt-almost", RegisteredAt: old,
		}))
	}
	require.NoError(t, regs.Insert(ctx, &models.Registration{ID: "f1", EventID: "evt-full", RegisteredAt: old}))
	require.NoError(t, regs.Insert(ctx, &models.Registration{ID: "f2", EventID: "evt-full", RegisteredAt: old}))

	items, err := svc.AdminNotifications(ctx, "admin@campus.edu", now)
	require.NoError(t, err)

	warning := findNotification(items, "capacity-evt-almost")
	require.NotNil(t, warning)
	assert.Equal(t, models.NotificationWarning, warning.Type)
	assert.Contains(t, warning.Message, "80%")

	fullNote := findNotification(items, "full-evt-full")
	require.NotNil(t, fullNote)
	assert.Equal(t, models.NotificationInfo, fullNote.Type)

	// Another admin's bell stays empty.
	other, err := svc.AdminNotifications(ctx, "other@campus.edu", now)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAdminNotificationsRecentRegistrationsAndReminder(t *testing.T) {
	svc, events, regs := notificationFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	soon := &models.Event{
		ID: "evt-soon", Title: "Career Fair", MaxCapacity: 100,
		Date: "2026-03-12", Time: "09:00", CreatedBy: "admin@campus.edu",
	}
	require.NoError(t, events.Insert(ctx, soon))
	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r1", EventID: "evt-soon", RegisteredAt: now.Add(-2 * time.Hour),
	}))

	items, err := svc.AdminNotifications(ctx, "admin@campus.edu", now)
	require.NoError(t, err)

	fresh := findNotification(items, "new-reg-evt-soon")
	require.NotNil(t, fresh)
	assert.Contains(t, fresh.Message, "1 new registrations")

	reminder := findNotification(items, "upcoming-evt-soon")
	require.NotNil(t, reminder)
	assert.Contains(t, reminder.Message, "2026-03-12")
}

func TestStudentNotifications(t *testing.T) {
	svc, events, regs := notificationFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	tomorrow := &models.Event{
		ID: "evt-tomorrow", Title: "Design Sprint", MaxCapacity: 30,
		Date: "2026-03-11", Time: "14:00", CreatedBy: "admin@campus.edu",
	}
	done := &models.Event{
		ID: "evt-done", Title: "Spring Concert", MaxCapacity: 200,
		Date: "2026-03-01", Time: "19:00", CreatedBy: "admin@campus.edu",
	}
	require.NoError(t, events.Insert(ctx, tomorrow))
	require.NoError(t, events.Insert(ctx, done))

	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r-tomorrow", EventID: "evt-tomorrow", StudentEmail: "asha@campus.edu",
		RegisteredAt: now.Add(-3 * time.Hour),
	}))
	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r-done", EventID: "evt-done", StudentEmail: "asha@campus.edu",
		RegisteredAt: now.Add(-10 * 24 * time.Hour), Attended: true,
	}))

	items, err := svc.StudentNotifications(ctx, "asha@campus.edu", now)
	require.NoError(t, err)

	reminder := findNotification(items, "reminder-r-tomorrow")
	require.NotNil(t, reminder)
	assert.Contains(t, reminder.Message, "tomorrow at 14:00")

	confirm := findNotification(items, "confirm-r-tomorrow")
	require.NotNil(t, confirm)
	assert.Equal(t, models.NotificationSuccess, confirm.Type)

	feedback := findNotification(items, "feedback-r-done")
	require.NotNil(t, feedback)
	assert.Equal(t, models.NotificationWarning, feedback.Type)

	// Once feedback lands the prompt disappears.
	reg, err := regs.FindByID(ctx, "r-done")
	require.NoError(t, err)
	reg.FeedbackGiven = true
	require.NoError(t, regs.Update(ctx, reg))

	items, err = svc.StudentNotifications(ctx, "asha@campus.edu", now)
	require.NoError(t, err)
	assert.Nil(t, findNotification(items, "feedback-r-done"))
}
