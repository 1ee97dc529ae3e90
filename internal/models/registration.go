package models

import "time"

// Feedback is the write-once rating a student leaves after attending.
type Feedback struct {
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Registration links one student to one event. The student fields are a
// snapshot taken at registration time; later profile edits do not rewrite
// past registrations.
type Registration struct {
	ID            string    `json:"id"`
	EventID       string    `json:"eventId"`
	StudentName   string    `json:"studentName"`
	StudentEmail  string    `json:"studentEmail"`
	Phone         string    `json:"phone"`
	College       string    `json:"college"`
	RegisteredAt  time.Time `json:"registeredAt"`
	Attended      bool      `json:"attended"`
	FeedbackGiven bool      `json:"feedback_given"`
	Feedback      *Feedback `json:"feedback,omitempty"`
}

// StudentInfo is the registrant snapshot captured when registering.
type StudentInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	College string `json:"college"`
}
