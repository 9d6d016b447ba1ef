package domain

import "time"

// User is the domain model for registered accounts. Email is unique.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the populated display shape embedded in ticket and comment
// listings (name/email for assignee pickers and avatars).
type UserRef struct {
	ID    string
	Name  string
	Email string
}
