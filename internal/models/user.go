package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// User is an application account stored in the campus_users collection.
// The struct is what gets serialized into the store, so the hash keeps a
// JSON tag; API responses expose UserInfo instead, never User.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FullName     string    `json:"full_name"`
	Role         UserRole  `json:"role"`
	Phone        string    `json:"phone"`
	College      string    `json:"college"`
	CreatedAt    time.Time `json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
