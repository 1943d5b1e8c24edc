package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ivix-ratings/internal/catalog"
	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/metrics"
	"ivix-ratings/internal/service"
	"ivix-ratings/internal/validation"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	games   service.CatalogService
	users   service.UserService
	tokens  *TokenIssuer
	limiter *RateLimiter
	origins []string
	logger  *logrus.Logger
}

func NewHandler(games service.CatalogService, users service.UserService, tokens *TokenIssuer, limiter *RateLimiter, origins []string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	validation.Init()
	return &Handler{
		games:   games,
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		origins: origins,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), requestLogger(h.logger), metrics.Middleware(), cors.New(h.corsConfig()))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.GET("/games", h.listGames)
		api.GET("/games/:id", h.getGame)
		api.GET("/games/:id/reviews", h.listReviews)
		api.POST("/games", h.requireSession(), h.submitGame)
		api.POST("/games/:id/reviews", h.requireSession(), h.rateGame)

		auth := api.Group("/auth")
		auth.POST("/signup", h.limiter.Middleware(), h.signup)
		auth.POST("/login", h.limiter.Middleware(), h.login)
		auth.POST("/logout", h.requireSession(), h.logout)
		auth.GET("/me", h.requireSession(), h.me)
	}
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := make([]string, 0, len(h.origins))
	for _, o := range h.origins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// loginRequest has no binding rules; Login answers any bad pair with
// ErrInvalidCredentials.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	User      domain.User `json:"user"`
}

func (h *Handler) listGames(c *gin.Context) {
	games := h.games.ListGames(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, games)
}

func (h *Handler) getGame(c *gin.Context) {
	game, err := h.games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *Handler) listReviews(c *gin.Context) {
	game, err := h.games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game.Reviews)
}

func (h *Handler) submitGame(c *gin.Context) {
	var req catalog.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	game, err := h.games.SubmitGame(c.Request.Context(), sessionUser(c).ID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *Handler) rateGame(c *gin.Context) {
	var req catalog.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	game, err := h.games.RateGame(c.Request.Context(), sessionUser(c).ID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *Handler) signup(c *gin.Context) {
	var req service.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.issueSession(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.issueSession(c, http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, sessionUser(c))
}

func (h *Handler) issueSession(c *gin.Context, status int, user *domain.User) {
	token, exp, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, sessionResponse{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
		User:      *user,
	})
}

// badRequest answers a body that could not be decoded or failed binding rules.
func (h *Handler) badRequest(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	status := http.StatusUnprocessableEntity
	if _, ok := details["payload"]; ok && len(details) == 1 {
		status = http.StatusBadRequest
	}
	h.logger.WithField("request_id", c.GetString(requestIDKey)).Debugf("rejected request body: %v", err)
	c.JSON(status, gin.H{"error": "invalid request", "fields": details})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
	case errors.Is(err, catalog.ErrUnauthenticated):
		unauthorized(c)
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, catalog.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": catalog.ErrUnauthenticated.Error(), "action": "login"})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
