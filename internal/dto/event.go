package dto

import "github.com/campus-spark/events-api/internal/models"

// CreateEventRequest describes event creation payload.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Type        string `json:"type" validate:"required"`
	College     string `json:"college" validate:"required"`
	MaxCapacity int    `json:"max_capacity" validate:"required,min=1"`
}

// UpdateEventRequest patches mutable event fields. Nil means keep as is;
// id, created_at and created_by are never patchable.
type UpdateEventRequest struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Date        *string             `json:"date,omitempty"`
	Time        *string             `json:"time,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Type        *string             `json:"type,omitempty"`
	College     *string             `json:"college,omitempty"`
	MaxCapacity *int                `json:"max_capacity,omitempty"`
	Status      *models.EventStatus `json:"status,omitempty"`
}

// EventView is an event enriched with the derived lifecycle state and the
// freshly counted availability; the stored status stays visible untouched.
type EventView struct {
	models.Event
	DerivedStatus  models.EventStatus `json:"derived_status"`
	AvailableSpots int                `json:"available_spots"`
}
