package models

import "time"

// Activity is one entry in the admin activity feed, newest first.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Activity feed entry types recorded by the ledger.
const (
	ActivityRegistration = "registration"
	ActivityCancellation = "cancellation"
	ActivityCheckIn      = "checkin"
	ActivityFeedback     = "feedback"
	ActivityEvent        = "event"
)
