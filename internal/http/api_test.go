package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/repository/blob"
	"ivix-ratings/internal/service"
	"ivix-ratings/internal/storage"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	ctrl   *service.Controller
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := storage.NewMemoryStore()
	ctrl := service.NewController(service.Config{
		Games:      blob.NewGameRepository(store),
		Users:      blob.NewUserRepository(store),
		Session:    blob.NewSessionRepository(store),
		Logger:     logger,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, ctrl.Restore(t.Context()))

	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	if limiter == nil {
		limiter = NewRateLimiter(0, 0)
	}

	router := gin.New()
	NewHandler(ctrl, ctrl, tokens, limiter, nil, logger).RegisterRoutes(router)
	return &testServer{t: t, router: router, ctrl: ctrl}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) signup(username, email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": username, "email": email, "password": "hunter22",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp sessionResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestListGames_Filter(t *testing.T) {
	s := newTestServer(t, nil)

	all := decode[[]domain.Game](t, s.do(http.MethodGet, "/api/games", "", nil))
	assert.Len(t, all, 5)

	rpg := decode[[]domain.Game](t, s.do(http.MethodGet, "/api/games?q=rpg", "", nil))
	require.Len(t, rpg, 1)
	assert.Equal(t, "Cyberpunk 2077", rpg[0].Title)
}

func TestGetGame(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/games/5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Minecraft", decode[domain.Game](t, w).Title)

	w = s.do(http.MethodGet, "/api/games/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateGame_Flow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/games/5/reviews", "", gin.H{"rating": 10})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "login", decode[map[string]any](t, w)["action"])

	token := s.signup("alice", "alice@example.com")
	w = s.do(http.MethodPost, "/api/games/5/reviews", token, gin.H{"rating": 10, "body": "blocks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	game := decode[domain.Game](t, w)
	assert.Equal(t, 10.0, game.Rating)
	assert.Equal(t, 1, game.ReviewCount)

	w = s.do(http.MethodPost, "/api/games/5/reviews", token, gin.H{"rating": 4})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/games/5/reviews", token, gin.H{"rating": 11})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[map[string]any](t, w)["fields"], "rating")

	w = s.do(http.MethodPost, "/api/games/404/reviews", token, gin.H{"rating": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/games/5/reviews", token, `{"rating":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reviews := decode[[]domain.Review](t, s.do(http.MethodGet, "/api/games/5/reviews", "", nil))
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].Username)
}

func TestSubmitGame(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signup("alice", "alice@example.com")

	w := s.do(http.MethodPost, "/api/games", token, gin.H{
		"title":       "Hades",
		"genre":       "Action",
		"platform":    []string{"PC"},
		"releaseYear": 2020,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	game := decode[domain.Game](t, w)
	assert.Equal(t, "alice", game.SubmittedBy)
	assert.Len(t, decode[[]domain.Game](t, s.do(http.MethodGet, "/api/games", "", nil)), 6)

	w = s.do(http.MethodPost, "/api/games", token, gin.H{"title": "X", "genre": "Karaoke"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decode[map[string]any](t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "genre")
	assert.Contains(t, fields, "platform")
}

func TestAuth_ConflictsAndCredentials(t *testing.T) {
	s := newTestServer(t, nil)
	s.signup("alice", "alice@example.com")

	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, service.ErrEmailTaken.Error(), decode[map[string]any](t, w)["error"])

	w = s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": "alice", "email": "new@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, body := range []gin.H{
		{"email": "not-an-email", "password": "hunter22"},
		{"email": "alice@example.com"},
		{},
	} {
		w = s.do(http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "body %v", body)
		assert.Equal(t, service.ErrInvalidCredentials.Error(), decode[map[string]any](t, w)["error"])
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signup("alice", "alice@example.com")

	w := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[domain.User](t, w)
	assert.Equal(t, "alice", me.Username)
	assert.Empty(t, me.PasswordHash)

	w = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[sessionResponse](t, w).Token
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", fresh, nil).Code)
}

func TestTokenForOtherUserIsRejected(t *testing.T) {
	s := newTestServer(t, nil)
	first := s.signup("alice", "alice@example.com")
	s.signup("bob", "bob@example.com")

	w := s.do(http.MethodPost, "/api/games/1/reviews", first, gin.H{"rating": 7})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	s := newTestServer(t, NewRateLimiter(0.001, 2))
	body := gin.H{"email": "x@example.com", "password": "whatever"}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, "/api/games", "", nil)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ivix_http_requests_total")
}
