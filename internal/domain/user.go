package domain

import "time"

// User represents a registered account of the catalog.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized drops credential material before a user leaves the service layer.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
