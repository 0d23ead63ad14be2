package domain

import "time"

// User is the domain entity for a user account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// LoginAttempt is one row of the login audit log. Appended on every attempt,
// success or failure; the application never mutates or deletes rows.
type LoginAttempt struct {
	ID          int64
	Username    string
	AttemptTime time.Time
	Success     bool
}
