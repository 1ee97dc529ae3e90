package models

import "time"

// NotificationType classifies synthesized notifications.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
)

// Notification is a transient message synthesized from ledger state. Nothing
// is persisted; regenerating with the same state and clock yields the same
// set.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	ActionURL string           `json:"actionUrl,omitempty"`
}
