package domain

import "time"

// User represents a registered identity. The ID is an opaque uuid assigned at
// creation and never changes; Email is unique across all users.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
	CreatedAt    time.Time
}
