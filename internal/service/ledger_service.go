package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/dto"
	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/repository"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Insert(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type registrationRepository interface {
	List(ctx context.Context) ([]models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]models.Registration, error)
	Insert(ctx context.Context, reg *models.Registration) error
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, id string) error
	DeleteByEvent(ctx context.Context, eventID string) (int, error)
}

type activityRecorder interface {
	Record(ctx context.Context, activity models.Activity) error
}

// dashboardInvalidator drops cached dashboard aggregates after a mutation.
type dashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// LedgerService is the single authority over the event catalog and the
// registration list. Every mutation flows through it; the mutex makes each
// check-then-write pair one logical operation within this process. Two
// processes sharing the same store are NOT serialized (an accepted limitation
// of the non-transactional substrate), and a server-side atomic increment
// would be the upgrade path.
type LedgerService struct {
	events     eventRepository
	regs       registrationRepository
	activities activityRecorder
	stats      dashboardInvalidator
	validator  *validator.Validate
	logger     *zap.Logger

	mu sync.Mutex
}

// NewLedgerService constructs a LedgerService. stats may be nil when no
// dashboard cache is wired.
func NewLedgerService(events eventRepository, regs registrationRepository, activities activityRecorder, stats dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{events: events, regs: regs, activities: activities, stats: stats, validator: validate, logger: logger}
}

// ListEvents returns events in insertion order, enriched with derived status
// and a freshly counted availability. Page 0 with size 0 returns everything
// without pagination metadata.
func (s *LedgerService) ListEvents(ctx context.Context, filter models.EventFilter) ([]dto.EventView, *models.Pagination, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}

	counts := make(map[string]int, len(events))
	for _, reg := range regs {
		counts[reg.EventID]++
	}

	now := time.Now().UTC()
	views := make([]dto.EventView, 0, len(events))
	for _, event := range events {
		if !matchesFilter(event, filter) {
			continue
		}
		views = append(views, makeView(event, counts[event.ID], now))
	}

	if filter.Page == 0 && filter.PageSize == 0 {
		return views, nil, nil
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(views)}

	start := (page - 1) * size
	if start >= len(views) {
		return []dto.EventView{}, pagination, nil
	}
	end := start + size
	if end > len(views) {
		end = len(views)
	}
	return views[start:end], pagination, nil
}

// GetEvent returns a single event view.
func (s *LedgerService) GetEvent(ctx context.Context, id string) (*dto.EventView, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	regs, err := s.regs.ListByEvent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count registrations")
	}
	view := makeView(*event, len(regs), time.Now().UTC())
	return &view, nil
}

// CreateEvent validates the payload and inserts a new event owned by the
// acting admin.
func (s *LedgerService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, createdBy string) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("date must use %s format", models.DateLayout))
	}
	if _, err := time.Parse(models.TimeLayout, req.Time); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("time must use %s format", models.TimeLayout))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event := &models.Event{
		ID:                   uuid.NewString(),
		Title:                req.Title,
		Description:          req.Description,
		Date:                 req.Date,
		Time:                 req.Time,
		Location:             req.Location,
		Type:                 req.Type,
		College:              req.College,
		MaxCapacity:          req.MaxCapacity,
		CurrentRegistrations: 0,
		Status:               models.EventStatusUpcoming,
		CreatedBy:            createdBy,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.events.Insert(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	s.invalidateStats(ctx)
	s.recordActivity(ctx, models.ActivityEvent, fmt.Sprintf("Event %q created by %s", event.Title, createdBy))
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("created_by", createdBy))
	return event, nil
}

// UpdateEvent applies only mutable fields; id, created_at and created_by are
// immutable. Capacity can never drop below the current active registration
// count, since shrinking past it would break the capacity invariant
// retroactively.
func (s *LedgerService) UpdateEvent(ctx context.Context, id string, patch dto.UpdateEventRequest) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Date != nil {
		if _, err := time.Parse(models.DateLayout, *patch.Date); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("date must use %s format", models.DateLayout))
		}
		event.Date = *patch.Date
	}
	if patch.Time != nil {
		if _, err := time.Parse(models.TimeLayout, *patch.Time); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("time must use %s format", models.TimeLayout))
		}
		event.Time = *patch.Time
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Type != nil {
		event.Type = *patch.Type
	}
	if patch.College != nil {
		event.College = *patch.College
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.EventStatusUpcoming, models.EventStatusOngoing, models.EventStatusCompleted, models.EventStatusCancelled:
			event.Status = *patch.Status
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown event status")
		}
	}
	if patch.MaxCapacity != nil {
		if *patch.MaxCapacity < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "max_capacity must be at least 1")
		}
		regs, err := s.regs.ListByEvent(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count registrations")
		}
		if *patch.MaxCapacity < len(regs) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("max_capacity cannot drop below %d existing registrations", len(regs)))
		}
		event.MaxCapacity = *patch.MaxCapacity
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.invalidateStats(ctx)
	return event, nil
}

// DeleteEvent removes the event and cascades over its registrations so no
// registration is left referencing a missing event.
func (s *LedgerService) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	removed, err := s.regs.DeleteByEvent(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cascade registrations")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}

	s.invalidateStats(ctx)
	s.recordActivity(ctx, models.ActivityEvent, fmt.Sprintf("Event %q deleted (%d registrations removed)", event.Title, removed))
	s.logger.Info("event deleted", zap.String("event_id", id), zap.Int("registrations_removed", removed))
	return nil
}

// Register creates a registration for the student, holding the ledger lock
// across the duplicate check, the capacity check and the insert.
func (s *LedgerService) Register(ctx context.Context, eventID string, info models.StudentInfo) (*models.Registration, error) {
	if err := s.validator.Struct(info); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student info")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	now := time.Now().UTC()
	if event.IsCancelled() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event has been cancelled")
	}
	if event.IsCompleted(now) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "registration closed, event already took place")
	}

	existing, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	for _, reg := range existing {
		if reg.StudentEmail == info.Email {
			return nil, appErrors.ErrDuplicateRegistration
		}
	}
	if len(existing) >= event.MaxCapacity {
		return nil, appErrors.ErrCapacityExceeded
	}

	reg := &models.Registration{
		ID:           uuid.NewString(),
		EventID:      eventID,
		StudentName:  info.Name,
		StudentEmail: info.Email,
		Phone:        info.Phone,
		College:      info.College,
		RegisteredAt: now,
		Attended:     false,
	}
	if err := s.regs.Insert(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}

	s.resyncEventCount(ctx, event, len(existing)+1)
	s.invalidateStats(ctx)
	s.recordActivity(ctx, models.ActivityRegistration, fmt.Sprintf("%s registered for %s", info.Name, event.Title))
	s.logger.Info("registration created",
		zap.String("registration_id", reg.ID),
		zap.String("event_id", eventID),
		zap.String("student_email", info.Email),
	)
	return reg, nil
}

// CancelRegistration removes the registration row. A second cancel of the
// same id fails with NotFound, so the cached count can never double-decrement.
func (s *LedgerService) CancelRegistration(ctx context.Context, regID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.regs.FindByID(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}

	if err := s.regs.Delete(ctx, regID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel registration")
	}

	if event, err := s.events.FindByID(ctx, reg.EventID); err == nil {
		remaining, lerr := s.regs.ListByEvent(ctx, reg.EventID)
		if lerr == nil {
			s.resyncEventCount(ctx, event, len(remaining))
		}
		s.recordActivity(ctx, models.ActivityCancellation, fmt.Sprintf("%s cancelled registration for %s", reg.StudentName, event.Title))
	}

	s.invalidateStats(ctx)
	s.logger.Info("registration cancelled", zap.String("registration_id", regID), zap.String("event_id", reg.EventID))
	return nil
}

// CheckIn marks attendance. Checking in an already-attended registration is a
// no-op that returns the current state rather than an error.
func (s *LedgerService) CheckIn(ctx context.Context, regID string) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.regs.FindByID(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if reg.Attended {
		return reg, nil
	}

	reg.Attended = true
	if err := s.regs.Update(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-in")
	}

	s.invalidateStats(ctx)
	s.recordActivity(ctx, models.ActivityCheckIn, fmt.Sprintf("%s checked in", reg.StudentName))
	return reg, nil
}

// SubmitFeedback attaches write-once feedback. The event must be over, the
// student must have attended, and no feedback may exist yet.
func (s *LedgerService) SubmitFeedback(ctx context.Context, regID string, req dto.FeedbackRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rating must be between 1 and 5")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.regs.FindByID(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if reg.FeedbackGiven {
		return nil, appErrors.ErrFeedbackAlreadyGiven
	}

	event, err := s.events.FindByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrFeedbackNotAllowed, "event no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	now := time.Now().UTC()
	if !event.IsCompleted(now) {
		return nil, appErrors.Clone(appErrors.ErrFeedbackNotAllowed, "event has not taken place yet")
	}
	if !reg.Attended {
		return nil, appErrors.Clone(appErrors.ErrFeedbackNotAllowed, "feedback requires attendance")
	}

	reg.FeedbackGiven = true
	reg.Feedback = &models.Feedback{Rating: req.Rating, Comments: req.Comments, SubmittedAt: now}
	if err := s.regs.Update(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}

	s.invalidateStats(ctx)
	s.recordActivity(ctx, models.ActivityFeedback, fmt.Sprintf("Feedback received for %s (%d/5 stars)", event.Title, req.Rating))
	return reg, nil
}

// GetRegistration returns a single registration by id.
func (s *LedgerService) GetRegistration(ctx context.Context, regID string) (*models.Registration, error) {
	reg, err := s.regs.FindByID(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return reg, nil
}

// RegistrationsForEvent returns the registrations referencing the event.
func (s *LedgerService) RegistrationsForEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	regs, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	return regs, nil
}

// RegistrationsForStudent returns the registrations made by one student.
func (s *LedgerService) RegistrationsForStudent(ctx context.Context, studentEmail string) ([]models.Registration, error) {
	regs, err := s.regs.ListByStudent(ctx, studentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	return regs, nil
}

// FeedbackEntries collects submitted feedback across all registrations,
// newest first. An eventID narrows the result to one event.
func (s *LedgerService) FeedbackEntries(ctx context.Context, eventID string) ([]dto.FeedbackEntry, error) {
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	titles := make(map[string]string, len(events))
	for _, event := range events {
		titles[event.ID] = event.Title
	}

	entries := make([]dto.FeedbackEntry, 0)
	for _, reg := range regs {
		if !reg.FeedbackGiven || reg.Feedback == nil {
			continue
		}
		if eventID != "" && reg.EventID != eventID {
			continue
		}
		entries = append(entries, dto.FeedbackEntry{
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			EventTitle:     titles[reg.EventID],
			StudentName:    reg.StudentName,
			StudentEmail:   reg.StudentEmail,
			Rating:         reg.Feedback.Rating,
			Comments:       reg.Feedback.Comments,
			SubmittedAt:    reg.Feedback.SubmittedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SubmittedAt.After(entries[j].SubmittedAt)
	})
	return entries, nil
}

// EventHistoryForStudent returns the events the student attended, most
// recent first.
func (s *LedgerService) EventHistoryForStudent(ctx context.Context, studentEmail string, now time.Time) ([]dto.EventView, error) {
	regs, err := s.regs.ListByStudent(ctx, studentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	views := make([]dto.EventView, 0)
	for _, reg := range regs {
		if !reg.Attended {
			continue
		}
		event, err := s.events.FindByID(ctx, reg.EventID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRecord) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
		}
		count, err := s.regs.ListByEvent(ctx, reg.EventID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count registrations")
		}
		views = append(views, makeView(*event, len(count), now))
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].StartsAt().After(views[j].StartsAt())
	})
	return views, nil
}

// resyncEventCount refreshes the cached current_registrations field. The
// cache is cosmetic; reads always recount, so a failed resync is logged and
// not surfaced.
func (s *LedgerService) resyncEventCount(ctx context.Context, event *models.Event, count int) {
	event.CurrentRegistrations = count
	if err := s.events.Update(ctx, event); err != nil {
		s.logger.Warn("failed to resync cached registration count",
			zap.String("event_id", event.ID), zap.Error(err))
	}
}

func (s *LedgerService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	s.stats.Invalidate(ctx)
}

func (s *LedgerService) recordActivity(ctx context.Context, kind, message string) {
	if s.activities == nil {
		return
	}
	activity := models.Activity{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.activities.Record(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity", zap.Error(err))
	}
}

func makeView(event models.Event, count int, now time.Time) dto.EventView {
	event.CurrentRegistrations = count
	available := event.MaxCapacity - count
	if available < 0 {
		available = 0
	}
	return dto.EventView{
		Event:          event,
		DerivedStatus:  event.DerivedStatus(now),
		AvailableSpots: available,
	}
}

func matchesFilter(event models.Event, filter models.EventFilter) bool {
	if filter.College != "" && event.College != filter.College {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.CreatedBy != "" && event.CreatedBy != filter.CreatedBy {
		return false
	}
	if filter.Search != "" && !containsFold(event.Title, filter.Search) && !containsFold(event.Description, filter.Search) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
