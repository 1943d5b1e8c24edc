package blob

import (
	"context"
	"fmt"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/repository"
	"ivix-ratings/internal/storage"
)

type UserRepository struct {
	store storage.Store
}

func NewUserRepository(store storage.Store) repository.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Load(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if _, err := loadJSON(ctx, r.store, repository.UsersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, users []domain.User) error {
	for _, u := range users {
		if u.PasswordHash == "" {
			return fmt.Errorf("user %s has no password hash", u.ID)
		}
	}
	if users == nil {
		users = []domain.User{}
	}
	return saveJSON(ctx, r.store, repository.UsersKey, users)
}

type SessionRepository struct {
	store storage.Store
}

func NewSessionRepository(store storage.Store) repository.SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Load(ctx context.Context) (*domain.User, error) {
	var user domain.User
	found, err := loadJSON(ctx, r.store, repository.SessionKey, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// Save stores the session user without credential material.
func (r *SessionRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return r.Clear(ctx)
	}
	return saveJSON(ctx, r.store, repository.SessionKey, user.Sanitized())
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, repository.SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
