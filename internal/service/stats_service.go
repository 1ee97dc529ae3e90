package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
)

const dashboardCacheKey = "stats:dashboard"

// StatsCache is the short-lived byte cache in front of the dashboard query.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StatsService derives aggregates by filtering the live collections. It
// replaces the half dozen overlapping stats helpers of the old client with
// one parameterized query surface. Nothing here trusts cached counters.
type StatsService struct {
	events eventRepository
	regs   registrationRepository
	cache  StatsCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs a StatsService. cache may be nil, in which case
// the dashboard aggregate is recomputed on every call.
func NewStatsService(events eventRepository, regs registrationRepository, cache StatsCache, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsService{events: events, regs: regs, cache: cache, ttl: ttl, logger: logger}
}

// Invalidate drops the cached dashboard aggregate. The ledger calls this
// after every mutation so the next Dashboard read recomputes.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

// StudentStats aggregates one student's registrations.
func (s *StatsService) StudentStats(ctx context.Context, studentEmail string) (*models.StudentStats, error) {
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

	now := time.Now().UTC()
	stats := &models.StudentStats{Registered: len(regs)}
	for _, reg := range regs {
		if reg.Attended {
			stats.Attended++
		}
		if reg.FeedbackGiven {
			stats.Feedbacks++
		}
		event, ok := byID[reg.EventID]
		if !ok {
			continue
		}
		if event.IsCompleted(now) {
			stats.Completed++
		}
		if event.IsUpcoming(now) {
			stats.Upcoming++
		}
	}
	return stats, nil
}

// AdminStats aggregates the events created by one admin.
func (s *StatsService) AdminStats(ctx context.Context, adminEmail string) (*models.AdminStats, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	regsByEvent := make(map[string]int, len(events))
	for _, reg := range regs {
		regsByEvent[reg.EventID]++
	}

	now := time.Now().UTC()
	stats := &models.AdminStats{}
	for _, event := range events {
		if event.CreatedBy != adminEmail {
			continue
		}
		stats.EventsCreated++
		stats.TotalRegistrations += regsByEvent[event.ID]
		if event.IsCompleted(now) {
			stats.CompletedEvents++
		}
		if event.IsUpcoming(now) {
			stats.ActiveEvents++
		}
	}
	return stats, nil
}

// Dashboard aggregates the whole catalog for the admin dashboard, with a
// short-lived cache in front since every number can be rederived.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, dashboardCacheKey); err == nil {
			var cached models.DashboardStats
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	regsByEvent := make(map[string]int, len(events))
	feedbacks := 0
	for _, reg := range regs {
		regsByEvent[reg.EventID]++
		if reg.FeedbackGiven {
			feedbacks++
		}
	}

	now := time.Now().UTC()
	stats := &models.DashboardStats{
		TotalEvents:        len(events),
		TotalRegistrations: len(regs),
		FeedbacksReceived:  feedbacks,
		EventFills:         make([]models.EventFill, 0, len(events)),
	}
	for _, event := range events {
		if event.IsCompleted(now) {
			stats.CompletedEvents++
		}
		if event.IsUpcoming(now) {
			stats.UpcomingEvents++
		}
		fill := models.EventFill{
			EventID:       event.ID,
			Title:         event.Title,
			Registrations: regsByEvent[event.ID],
			MaxCapacity:   event.MaxCapacity,
		}
		if event.MaxCapacity > 0 {
			fill.FillRate = float64(fill.Registrations) / float64(event.MaxCapacity)
		}
		stats.EventFills = append(stats.EventFills, fill)
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, data, s.ttl); err != nil {
				s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
			}
		}
	}
	return stats, nil
}
