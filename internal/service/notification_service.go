package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
)

// almostFullThreshold is the fill ratio at which admins get warned.
const almostFullThreshold = 0.8

// NotificationService synthesizes transient messages from ledger state. It is
// strictly read-only: nothing is persisted and regenerating with the same
// state and clock yields the same set.
type NotificationService struct {
	events eventRepository
	regs   registrationRepository
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(events eventRepository, regs registrationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{events: events, regs: regs, logger: logger}
}

// AdminNotifications builds the notification bell for one admin's events:
// fresh registrations, capacity pressure and upcoming-event reminders.
func (s *NotificationService) AdminNotifications(ctx context.Context, adminEmail string, now time.Time) ([]models.Notification, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	regsByEvent := make(map[string][]models.Registration)
	for _, reg := range regs {
		regsByEvent[reg.EventID] = append(regsByEvent[reg.EventID], reg)
	}

	dayAgo := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	threeDays := now.Add(3 * 24 * time.Hour)

	notifications := []models.Notification{}
	for _, event := range events {
		if event.CreatedBy != adminEmail {
			continue
		}
		eventRegs := regsByEvent[event.ID]

		recent := 0
		for _, reg := range eventRegs {
			if reg.RegisteredAt.After(dayAgo) {
				recent++
			}
		}
		if recent > 0 {
			notifications = append(notifications, models.Notification{
				ID:        "new-reg-" + event.ID,
				Type:      models.NotificationSuccess,
				Title:     "New Registrations",
				Message:   fmt.Sprintf("%d new registrations for %q", recent, event.Title),
				Timestamp: now,
				ActionURL: "/admin/registrations",
			})
		}

		if event.MaxCapacity > 0 {
			ratio := float64(len(eventRegs)) / float64(event.MaxCapacity)
			switch {
			case ratio >= 1:
				notifications = append(notifications, models.Notification{
					ID:        "full-" + event.ID,
					Type:      models.NotificationInfo,
					Title:     "Event Full",
					Message:   fmt.Sprintf("%q has reached maximum capacity", event.Title),
					Timestamp: now,
					ActionURL: "/admin/events",
				})
			case ratio >= almostFullThreshold:
				notifications = append(notifications, models.Notification{
					ID:        "capacity-" + event.ID,
					Type:      models.NotificationWarning,
					Title:     "Event Almost Full",
					Message:   fmt.Sprintf("%q is %d%% full", event.Title, int(math.Round(ratio*100))),
					Timestamp: now,
					ActionURL: "/admin/events",
				})
			}
		}

		startsAt := event.StartsAt()
		if !event.IsCancelled() && !startsAt.Before(tomorrow) && !startsAt.After(threeDays) {
			notifications = append(notifications, models.Notification{
				ID:        "upcoming-" + event.ID,
				Type:      models.NotificationInfo,
				Title:     "Event Reminder",
				Message:   fmt.Sprintf("%q is coming up on %s", event.Title, event.Date),
				Timestamp: now,
				ActionURL: "/admin/events",
			})
		}
	}
	return notifications, nil
}

// StudentNotifications builds reminders and feedback prompts for one student.
func (s *NotificationService) StudentNotifications(ctx context.Context, studentEmail string, now time.Time) ([]models.Notification, error) {
	regs, err := s.regs.ListByStudent(ctx, studentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	byID := make(map[string]models.Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}

	dayAgo := now.Add(-24 * time.Hour)
	notifications := []models.Notification{}
	for _, reg := range regs {
		event, ok := byID[reg.EventID]
		if !ok {
			continue
		}

		startsAt := event.StartsAt()
		daysAway := int(math.Ceil(startsAt.Sub(now).Hours() / 24))
		if !event.IsCancelled() && daysAway == 1 {
			notifications = append(notifications, models.Notification{
				ID:        "reminder-" + reg.ID,
				Type:      models.NotificationInfo,
				Title:     "Event Tomorrow",
				Message:   fmt.Sprintf("Don't forget: %s is tomorrow at %s", event.Title, event.Time),
				Timestamp: now,
				ActionURL: "/student/registrations",
			})
		}

		if event.IsCompleted(now) && reg.Attended && !reg.FeedbackGiven {
			notifications = append(notifications, models.Notification{
				ID:        "feedback-" + reg.ID,
				Type:      models.NotificationWarning,
				Title:     "Feedback Requested",
				Message:   fmt.Sprintf("Please provide feedback for %s", event.Title),
				Timestamp: now,
				ActionURL: "/student/registrations",
			})
		}

		if reg.RegisteredAt.After(dayAgo) {
			notifications = append(notifications, models.Notification{
				ID:        "confirm-" + reg.ID,
				Type:      models.NotificationSuccess,
				Title:     "Registration Confirmed",
				Message:   fmt.Sprintf("You are registered for %s", event.Title),
				Timestamp: now,
				ActionURL: "/student/registrations",
			})
		}
	}
	return notifications, nil
}
