package blob

import (
	"context"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/repository"
	"ivix-ratings/internal/storage"
)

type GameRepository struct {
	store storage.Store
}

func NewGameRepository(store storage.Store) repository.GameRepository {
	return &GameRepository{store: store}
}

func (r *GameRepository) Load(ctx context.Context) ([]domain.Game, bool, error) {
	var games []domain.Game
	found, err := loadJSON(ctx, r.store, repository.CatalogKey, &games)
	if err != nil || !found {
		return nil, false, err
	}
	for i := range games {
		if games[i].Reviews == nil {
			games[i].Reviews = []domain.Review{}
		}
	}
	return games, true, nil
}

func (r *GameRepository) Save(ctx context.Context, games []domain.Game) error {
	if games == nil {
		games = []domain.Game{}
	}
	return saveJSON(ctx, r.store, repository.CatalogKey, games)
}
