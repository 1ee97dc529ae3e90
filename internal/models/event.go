package models

import "time"

// EventStatus represents the admin-settable lifecycle state of an event.
// Whether an event is over is always computed from its date; the stored
// status only carries states that cannot be derived from the calendar,
// with cancelled overriding any date.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// DateLayout is the calendar-date layout events are stored with.
const DateLayout = "2006-01-02"

// TimeLayout is the clock-time layout events are stored with.
const TimeLayout = "15:04"

// Event is a campus event in the admin catalog.
// CurrentRegistrations is a cache of the live registration count; it is
// resynchronized after every registration mutation and never trusted as the
// authoritative number.
type Event struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Date                 string      `json:"date"`
	Time                 string      `json:"time"`
	Location             string      `json:"location"`
	Type                 string      `json:"type"`
	College              string      `json:"college"`
	MaxCapacity          int         `json:"max_capacity"`
	CurrentRegistrations int         `json:"current_registrations"`
	Status               EventStatus `json:"status"`
	CreatedBy            string      `json:"created_by"`
	CreatedAt            time.Time   `json:"created_at"`
}

// StartsAt parses the event's date and time. Events with an unparsable date
// are treated as starting at the zero time, i.e. always in the past.
func (e Event) StartsAt() time.Time {
	if ts, err := time.Parse(DateLayout+" "+TimeLayout, e.Date+" "+e.Time); err == nil {
		return ts
	}
	ts, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// IsCancelled reports whether the event was cancelled by an admin.
func (e Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

// IsCompleted reports whether the event's date has passed. Cancelled events
// are never considered completed; they were called off, not held.
func (e Event) IsCompleted(now time.Time) bool {
	if e.IsCancelled() {
		return false
	}
	return e.StartsAt().Before(now)
}

// IsUpcoming reports whether the event is still ahead and not cancelled.
func (e Event) IsUpcoming(now time.Time) bool {
	if e.IsCancelled() {
		return false
	}
	return !e.StartsAt().Before(now)
}

// DerivedStatus computes the single source of truth for lifecycle display:
// cancelled wins, otherwise the calendar decides.
func (e Event) DerivedStatus(now time.Time) EventStatus {
	if e.IsCancelled() {
		return EventStatusCancelled
	}
	if e.IsCompleted(now) {
		return EventStatusCompleted
	}
	return EventStatusUpcoming
}

// EventFilter captures filtering criteria for listing events.
type EventFilter struct {
	College   string
	Type      string
	CreatedBy string
	Search    string
	Page      int
	PageSize  int
}
