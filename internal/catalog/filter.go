package catalog

import (
	"strings"

	"ivix-ratings/internal/domain"
)

// Filter returns the games whose title or genre contains term, ignoring case.
// Order is preserved and an empty term returns games as is.
func Filter(games []domain.Game, term string) []domain.Game {
	if term == "" {
		return games
	}
	needle := strings.ToLower(term)
	out := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Title), needle) ||
			strings.Contains(strings.ToLower(g.Genre), needle) {
			out = append(out, g)
		}
	}
	return out
}

// Find returns the index of the game with id, or -1.
func Find(games []domain.Game, id string) int {
	for i := range games {
		if games[i].ID == id {
			return i
		}
	}
	return -1
}
