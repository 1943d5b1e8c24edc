package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/validation"
)

// ReviewInput is the user supplied part of a review.
type ReviewInput struct {
	Rating int    `json:"rating" validate:"gte=1,lte=10"`
	Body   string `json:"body" validate:"max=500"`
}

// AddReview appends a review by actor to game and returns the updated game
// with its rating and review count recomputed. The input game is not modified.
func AddReview(game domain.Game, actor *domain.User, in ReviewInput, now time.Time) (domain.Game, error) {
	if actor == nil {
		return domain.Game{}, ErrUnauthenticated
	}
	in.Body = strings.TrimSpace(in.Body)
	if err := validation.Struct(in); err != nil {
		return domain.Game{}, err
	}
	if game.ReviewedBy(actor.ID) {
		return domain.Game{}, ErrAlreadyReviewed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Game{}, fmt.Errorf("generate review id: %w", err)
	}

	out := game.Clone()
	out.Reviews = append(out.Reviews, domain.Review{
		ID:        id.String(),
		UserID:    actor.ID,
		Username:  actor.Username,
		Rating:    in.Rating,
		Body:      in.Body,
		CreatedAt: now.UTC(),
	})
	out.Rating = AverageRating(out.Reviews)
	out.ReviewCount = len(out.Reviews)
	return out, nil
}

// AverageRating is the mean review rating rounded to one decimal place.
// It returns 0 for an empty list.
func AverageRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return RoundMean(sum, len(reviews))
}

// RoundMean returns sum/n rounded to one decimal, with halves rounded away
// from zero. Integer arithmetic keeps .x5 boundaries exact.
func RoundMean(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	num := sum * 10
	var tenths int
	if num >= 0 {
		tenths = (2*num + n) / (2 * n)
	} else {
		tenths = -((-2*num + n) / (2 * n))
	}
	return float64(tenths) / 10
}
