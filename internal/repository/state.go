package repository

import (
	"context"

	"ivix-ratings/internal/domain"
)

// Keys under which application state is persisted in the blob store.
const (
	SessionKey = "current-session-user"
	CatalogKey = "game-catalog"
	UsersKey   = "registered-users"
)

// GameRepository persists the ordered catalog as a whole.
type GameRepository interface {
	// Load returns the stored catalog. found is false when nothing was saved yet.
	Load(ctx context.Context) (games []domain.Game, found bool, err error)
	Save(ctx context.Context, games []domain.Game) error
}

// UserRepository persists the registered user list as a whole.
type UserRepository interface {
	Load(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}

// SessionRepository persists the single current session user.
type SessionRepository interface {
	// Load returns nil when no session is stored.
	Load(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}
