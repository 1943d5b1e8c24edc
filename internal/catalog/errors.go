package catalog

import "errors"

var (
	// ErrUnauthenticated is returned when a rating or submission arrives without a session user.
	ErrUnauthenticated = errors.New("login required")
	// ErrAlreadyReviewed is returned when a user tries to review the same game twice.
	ErrAlreadyReviewed = errors.New("game already reviewed by this user")
	// ErrGameNotFound indicates the requested game id is not in the catalog.
	ErrGameNotFound = errors.New("game not found")
)
