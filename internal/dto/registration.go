package dto

import "time"

// RegisterRequest optionally overrides the snapshot taken from the session
// when a student registers. Email always comes from the session, never the
// body.
type RegisterRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	College string `json:"college"`
}

// FeedbackRequest submits a write-once event rating.
type FeedbackRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// FeedbackEntry is one submitted rating joined with its event title for the
// admin feedback listing.
type FeedbackEntry struct {
	RegistrationID string    `json:"registrationId"`
	EventID        string    `json:"eventId"`
	EventTitle     string    `json:"eventTitle"`
	StudentName    string    `json:"studentName"`
	StudentEmail   string    `json:"studentEmail"`
	Rating         int       `json:"rating"`
	Comments       string    `json:"comments"`
	SubmittedAt    time.Time `json:"submittedAt"`
}
