package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/metrics"
	"ivix-ratings/internal/validation"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with an email that is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when signing up with a username that is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

// UserService describes the signup, login and logout lifecycle.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) *domain.User
}

var _ UserService = (*Controller)(nil)

// Signup registers a user and makes it the current session.
func (c *Controller) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	user, err := c.signup(ctx, in)
	metrics.RecordAuth("signup", outcome(err))
	return user, err
}

func (c *Controller) signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if findUser(c.state.Users, func(u domain.User) bool { return u.Email == in.Email }) >= 0 {
		return nil, ErrEmailTaken
	}
	if findUser(c.state.Users, func(u domain.User) bool { return u.Username == in.Username }) >= 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    c.now().UTC(),
	}

	next := make([]domain.User, 0, len(c.state.Users)+1)
	next = append(next, c.state.Users...)
	next = append(next, user)
	if err := c.users.Save(ctx, next); err != nil {
		return nil, err
	}
	c.state.Users = next

	session := user.Sanitized()
	if err := c.session.Save(ctx, &session); err != nil {
		return nil, fmt.Errorf("account created but session not saved: %w", err)
	}
	c.state.Session = &session

	c.logger.WithFields(logrus.Fields{"user_id": user.ID, "user": user.Username}).Info("user signed up")
	out := session
	return &out, nil
}

// Login makes the user matching email and password the current session.
func (c *Controller) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := c.login(ctx, email, password)
	metrics.RecordAuth("login", outcome(err))
	return user, err
}

func (c *Controller) login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := findUser(c.state.Users, func(u domain.User) bool { return u.Email == email })
	if i < 0 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.state.Users[i].PasswordHash), []byte(password)); err != nil {
		c.logger.WithField("user", c.state.Users[i].Username).Warn("login rejected")
		return nil, ErrInvalidCredentials
	}

	session := c.state.Users[i].Sanitized()
	if err := c.session.Save(ctx, &session); err != nil {
		return nil, err
	}
	c.state.Session = &session

	c.logger.WithFields(logrus.Fields{"user_id": session.ID, "user": session.Username}).Info("user logged in")
	out := session
	return &out, nil
}

// Logout clears the current session and its persisted copy.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.Clear(ctx); err != nil {
		metrics.RecordAuth("logout", "error")
		return err
	}
	if c.state.Session != nil {
		c.logger.WithField("user", c.state.Session.Username).Info("user logged out")
	}
	c.state.Session = nil
	metrics.RecordAuth("logout", "ok")
	return nil
}

// CurrentUser returns the session user, or nil when nobody is signed in.
func (c *Controller) CurrentUser(_ context.Context) *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Session == nil {
		return nil
	}
	u := *c.state.Session
	return &u
}
