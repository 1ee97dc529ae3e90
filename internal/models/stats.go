package models

// StudentStats aggregates one student's registrations against the catalog.
type StudentStats struct {
	Registered int `json:"registered"`
	Attended   int `json:"attended"`
	Feedbacks  int `json:"feedbacks"`
	Completed  int `json:"completed"`
	Upcoming   int `json:"upcoming"`
}

// AdminStats aggregates the events one admin created.
type AdminStats struct {
	EventsCreated      int `json:"events_created"`
	TotalRegistrations int `json:"total_registrations"`
	ActiveEvents       int `json:"active_events"`
	CompletedEvents    int `json:"completed_events"`
}

// EventFill reports how full a single event is.
type EventFill struct {
	EventID       string  `json:"event_id"`
	Title         string  `json:"title"`
	Registrations int     `json:"registrations"`
	MaxCapacity   int     `json:"max_capacity"`
	FillRate      float64 `json:"fill_rate"`
}

// DashboardStats is the admin dashboard aggregate over the whole catalog.
type DashboardStats struct {
	TotalEvents        int         `json:"total_events"`
	TotalRegistrations int         `json:"total_registrations"`
	CompletedEvents    int         `json:"completed_events"`
	UpcomingEvents     int         `json:"upcoming_events"`
	FeedbacksReceived  int         `json:"feedbacks_received"`
	EventFills         []EventFill `json:"event_fills"`
}
