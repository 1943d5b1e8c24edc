package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/validation"
)

func seedGame(t *testing.T, title string) domain.Game {
	t.Helper()
	for _, g := range Seed() {
		if g.Title == title {
			return g
		}
	}
	t.Fatalf("seed game %q not found", title)
	return domain.Game{}
}

func TestAddReview_MinecraftScenario(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u1 := &domain.User{ID: "u1", Username: "alice"}
	u2 := &domain.User{ID: "u2", Username: "bob"}

	game := seedGame(t, "Minecraft")
	require.Equal(t, 9.0, game.Rating)
	require.Equal(t, 0, game.ReviewCount)

	game, err := AddReview(game, u1, ReviewInput{Rating: 10}, now)
	require.NoError(t, err)
	assert.Equal(t, 10.0, game.Rating)
	assert.Equal(t, 1, game.ReviewCount)

	game, err = AddReview(game, u2, ReviewInput{Rating: 8, Body: "  solid  "}, now)
	require.NoError(t, err)
	assert.Equal(t, 9.0, game.Rating)
	assert.Equal(t, 2, game.ReviewCount)
	require.Len(t, game.Reviews, 2)
	assert.Equal(t, "bob", game.Reviews[1].Username)
	assert.Equal(t, "solid", game.Reviews[1].Body)
	assert.Equal(t, now, game.Reviews[1].CreatedAt)
	assert.NotEqual(t, game.Reviews[0].ID, game.Reviews[1].ID)
}

func TestAddReview_DoesNotMutateInput(t *testing.T) {
	game := seedGame(t, "God of War")
	_, err := AddReview(game, &domain.User{ID: "u1"}, ReviewInput{Rating: 3}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, game.Reviews)
	assert.Equal(t, 9.4, game.Rating)
}

func TestAddReview_Rejections(t *testing.T) {
	game := seedGame(t, "Cyberpunk 2077")
	actor := &domain.User{ID: "u1", Username: "alice"}

	_, err := AddReview(game, nil, ReviewInput{Rating: 5}, time.Now())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	for _, rating := range []int{0, 11, -3} {
		_, err = AddReview(game, actor, ReviewInput{Rating: rating}, time.Now())
		var fe validation.FieldErrors
		require.ErrorAs(t, err, &fe, "rating %d", rating)
		assert.Contains(t, fe, "rating")
	}

	long := make([]rune, 501)
	for i := range long {
		long[i] = 'é'
	}
	_, err = AddReview(game, actor, ReviewInput{Rating: 5, Body: string(long)}, time.Now())
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "body")

	_, err = AddReview(game, actor, ReviewInput{Rating: 5, Body: string(long[:500])}, time.Now())
	require.NoError(t, err)

	reviewed, err := AddReview(game, actor, ReviewInput{Rating: 5}, time.Now())
	require.NoError(t, err)
	_, err = AddReview(reviewed, actor, ReviewInput{Rating: 9}, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestAverageRating_MatchesRoundedMean(t *testing.T) {
	cases := []struct {
		ratings []int
		want    float64
	}{
		{[]int{10}, 10.0},
		{[]int{10, 8}, 9.0},
		{[]int{1, 2}, 1.5},
		{[]int{7, 8, 8}, 7.7},
		{[]int{5, 5, 4, 5}, 4.8},
		{[]int{1, 1, 1, 2}, 1.3},
		{[]int{3, 3, 3, 4, 4, 4, 4, 4}, 3.6},
		{[]int{1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}, 2.0},
		{[]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, 1.1},
	}
	for _, tc := range cases {
		reviews := make([]domain.Review, len(tc.ratings))
		for i, r := range tc.ratings {
			reviews[i] = domain.Review{Rating: r}
		}
		assert.Equal(t, tc.want, AverageRating(reviews), "ratings %v", tc.ratings)
	}
	assert.Equal(t, 0.0, AverageRating(nil))
}

func TestRoundMean_HalfAwayFromZero(t *testing.T) {
	// 19/4 = 4.75, 1/20 = 0.05, 61/20 = 3.05
	assert.Equal(t, 4.8, RoundMean(19, 4))
	assert.Equal(t, 0.1, RoundMean(1, 20))
	assert.Equal(t, 3.1, RoundMean(61, 20))
	assert.Equal(t, -4.8, RoundMean(-19, 4))
	assert.Equal(t, 0.0, RoundMean(5, 0))
}
