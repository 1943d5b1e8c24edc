package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"ivix-ratings/internal/catalog"
	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/metrics"
	"ivix-ratings/internal/repository"
	"ivix-ratings/internal/validation"
)

// State is the complete application state owned by a Controller.
type State struct {
	Games   []domain.Game
	Users   []domain.User
	Session *domain.User
}

// Config wires a Controller to its repositories.
type Config struct {
	Games      repository.GameRepository
	Users      repository.UserRepository
	Session    repository.SessionRepository
	Logger     *logrus.Logger
	BcryptCost int
	Now        func() time.Time
}

// Controller owns the catalog and session state. Every mutation is persisted
// before it becomes visible; a failed write leaves the in-memory state untouched.
type Controller struct {
	mu      sync.Mutex
	state   State
	games   repository.GameRepository
	users   repository.UserRepository
	session repository.SessionRepository
	logger  *logrus.Logger
	cost    int
	now     func() time.Time
}

func NewController(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		games:   cfg.Games,
		users:   cfg.Users,
		session: cfg.Session,
		logger:  cfg.Logger,
		cost:    cfg.BcryptCost,
		now:     cfg.Now,
	}
}

// Restore reads the persisted state wholesale. An empty store is seeded with
// the fixed starting catalog. A stored session whose user no longer exists is
// dropped.
func (c *Controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	games, found, err := c.games.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore catalog: %w", err)
	}
	if !found {
		games = catalog.Seed()
		if err := c.games.Save(ctx, games); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		c.logger.WithField("games", len(games)).Info("catalog seeded")
	}

	users, err := c.users.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore users: %w", err)
	}

	session, err := c.session.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if session != nil {
		if i := findUser(users, func(u domain.User) bool { return u.ID == session.ID }); i < 0 {
			c.logger.WithField("user_id", session.ID).Warn("dropping session for unknown user")
			if err := c.session.Clear(ctx); err != nil {
				return err
			}
			session = nil
		} else {
			u := users[i].Sanitized()
			session = &u
		}
	}

	c.state = State{Games: games, Users: users, Session: session}
	metrics.SetCatalogSize(len(games))
	c.logger.WithFields(logrus.Fields{
		"games":     len(games),
		"users":     len(users),
		"signed_in": session != nil,
	}).Info("state restored")
	return nil
}

// Snapshot returns a copy of the current state without credential material.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := State{
		Games: make([]domain.Game, len(c.state.Games)),
		Users: make([]domain.User, len(c.state.Users)),
	}
	for i := range c.state.Games {
		out.Games[i] = c.state.Games[i].Clone()
	}
	for i := range c.state.Users {
		out.Users[i] = c.state.Users[i].Sanitized()
	}
	if c.state.Session != nil {
		u := *c.state.Session
		out.Session = &u
	}
	return out
}

// actor returns the session user if it is userID. Callers hold c.mu.
func (c *Controller) actor(userID string) *domain.User {
	if s := c.state.Session; s != nil && userID != "" && s.ID == userID {
		return s
	}
	return nil
}

func findUser(users []domain.User, match func(domain.User) bool) int {
	for i := range users {
		if match(users[i]) {
			return i
		}
	}
	return -1
}

// outcome maps an operation error to a metrics label.
func outcome(err error) string {
	var fe validation.FieldErrors
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &fe):
		return "invalid"
	case errors.Is(err, catalog.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, catalog.ErrAlreadyReviewed),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken):
		return "conflict"
	case errors.Is(err, ErrInvalidCredentials):
		return "denied"
	case errors.Is(err, catalog.ErrGameNotFound):
		return "not_found"
	default:
		return "error"
	}
}
