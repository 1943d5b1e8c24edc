package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"ivix-ratings/internal/catalog"
	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/metrics"
)

// CatalogService describes the browse, rate and submit operations.
type CatalogService interface {
	ListGames(ctx context.Context, term string) []domain.Game
	GetGame(ctx context.Context, id string) (domain.Game, error)
	RateGame(ctx context.Context, userID, gameID string, in catalog.ReviewInput) (domain.Game, error)
	SubmitGame(ctx context.Context, userID string, in catalog.Submission) (domain.Game, error)
	ResetCatalog(ctx context.Context) error
}

var _ CatalogService = (*Controller)(nil)

// ListGames returns the catalog filtered by term, in catalog order.
func (c *Controller) ListGames(_ context.Context, term string) []domain.Game {
	c.mu.Lock()
	games := make([]domain.Game, len(c.state.Games))
	for i := range c.state.Games {
		games[i] = c.state.Games[i].Clone()
	}
	c.mu.Unlock()
	return catalog.Filter(games, term)
}

func (c *Controller) GetGame(_ context.Context, id string) (domain.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := catalog.Find(c.state.Games, id)
	if i < 0 {
		return domain.Game{}, catalog.ErrGameNotFound
	}
	return c.state.Games[i].Clone(), nil
}

// RateGame records a review by userID and persists the catalog. userID must
// be the session user at the time the review is applied.
func (c *Controller) RateGame(ctx context.Context, userID, gameID string, in catalog.ReviewInput) (domain.Game, error) {
	game, err := c.rateGame(ctx, userID, gameID, in)
	metrics.RecordReview(outcome(err))
	return game, err
}

func (c *Controller) rateGame(ctx context.Context, userID, gameID string, in catalog.ReviewInput) (domain.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	actor := c.actor(userID)
	if actor == nil {
		return domain.Game{}, catalog.ErrUnauthenticated
	}
	i := catalog.Find(c.state.Games, gameID)
	if i < 0 {
		return domain.Game{}, catalog.ErrGameNotFound
	}

	updated, err := catalog.AddReview(c.state.Games[i], actor, in, c.now())
	if err != nil {
		return domain.Game{}, err
	}

	next := make([]domain.Game, len(c.state.Games))
	copy(next, c.state.Games)
	next[i] = updated
	if err := c.games.Save(ctx, next); err != nil {
		return domain.Game{}, err
	}
	c.state.Games = next

	c.logger.WithFields(logrus.Fields{
		"game_id":      gameID,
		"user":         actor.Username,
		"rating":       in.Rating,
		"average":      updated.Rating,
		"review_count": updated.ReviewCount,
	}).Info("review added")
	return updated.Clone(), nil
}

// SubmitGame validates and appends a new game attributed to userID, which
// must be the session user.
func (c *Controller) SubmitGame(ctx context.Context, userID string, in catalog.Submission) (domain.Game, error) {
	game, err := c.submitGame(ctx, userID, in)
	metrics.RecordSubmission(outcome(err))
	return game, err
}

func (c *Controller) submitGame(ctx context.Context, userID string, in catalog.Submission) (domain.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := catalog.NewGame(in, c.actor(userID), c.now())
	if err != nil {
		return domain.Game{}, err
	}

	next := make([]domain.Game, 0, len(c.state.Games)+1)
	next = append(next, c.state.Games...)
	next = append(next, game)
	if err := c.games.Save(ctx, next); err != nil {
		return domain.Game{}, err
	}
	c.state.Games = next
	metrics.SetCatalogSize(len(next))

	c.logger.WithFields(logrus.Fields{
		"game_id": game.ID,
		"title":   game.Title,
		"user":    game.SubmittedBy,
	}).Info("game submitted")
	return game.Clone(), nil
}

// ResetCatalog replaces the catalog with the seed entries.
func (c *Controller) ResetCatalog(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seed := catalog.Seed()
	if err := c.games.Save(ctx, seed); err != nil {
		return err
	}
	c.state.Games = seed
	metrics.SetCatalogSize(len(seed))
	c.logger.WithField("games", len(seed)).Info("catalog reset to seed")
	return nil
}
