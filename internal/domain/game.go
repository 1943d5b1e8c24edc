package domain

import "time"

// Game is a catalog entry together with its embedded review history.
type Game struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Genre       string     `json:"genre"`
	Platforms   []string   `json:"platform"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"reviewCount"`
	Description string     `json:"description"`
	ReleaseYear int        `json:"releaseYear"`
	Image       string     `json:"image,omitempty"`
	Website     string     `json:"website,omitempty"`
	Trailer     string     `json:"trailer,omitempty"`
	SubmittedBy string     `json:"submittedBy,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	Reviews     []Review   `json:"reviews"`
}

// Review is a single user's rating of a game.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewedBy reports whether the user already left a review on the game.
func (g Game) ReviewedBy(userID string) bool {
	for _, r := range g.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can derive new state without aliasing.
func (g Game) Clone() Game {
	out := g
	if g.Platforms != nil {
		out.Platforms = make([]string, len(g.Platforms))
		copy(out.Platforms, g.Platforms)
	}
	if g.Reviews != nil {
		out.Reviews = make([]Review, len(g.Reviews))
		copy(out.Reviews, g.Reviews)
	}
	if g.SubmittedAt != nil {
		t := *g.SubmittedAt
		out.SubmittedAt = &t
	}
	return out
}
