package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/netkit/auth/jwt"
	"github.com/kbukum/netkit/auth/password"
	"github.com/kbukum/netkit/logger"
	"github.com/kbukum/netkit/observability"
	"github.com/kbukum/netkit/server"
	"github.com/kbukum/netkit/server/middleware"
	"github.com/kbukum/netkit/validation"
)

const refreshTokenBytes = 32

// Config configures the mock backend.
type Config struct {
	Secret         string        `yaml:"secret" mapstructure:"secret"`
	Issuer         string        `yaml:"issuer" mapstructure:"issuer"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" mapstructure:"access_token_ttl"`
	// FlakyFailures is the number of 503s /flaky returns per key. Zero means 2.
	FlakyFailures int    `yaml:"flaky_failures" mapstructure:"flaky_failures" validate:"gte=0"`
	BcryptCost    int    `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	Users         []User `yaml:"users" mapstructure:"users"`
}

// User seeds a player account.
type User struct {
	Email    string `yaml:"email" mapstructure:"email"`
	Password string `yaml:"password" mapstructure:"password"`
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "netkit-mock"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 5 * time.Minute
	}
	if c.FlakyFailures == 0 {
		c.FlakyFailures = 2
	}
}

// API serves the mock endpoints.
type API struct {
	cfg    Config
	store  *store
	tokens *jwt.Service[*PlayerClaims]
	hasher password.Hasher
	items  []Item
	log    *logger.Logger
}

// New creates an API and registers the configured users.
func New(cfg Config, log *logger.Logger) (*API, error) {
	cfg.ApplyDefaults()
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("mockapi: %w", err)
	}

	tokens, err := jwt.NewService(&jwt.Config{
		Secret:         cfg.Secret,
		Method:         jwt.HS256,
		Issuer:         cfg.Issuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	}, func() *PlayerClaims { return &PlayerClaims{} })
	if err != nil {
		return nil, fmt.Errorf("mockapi: %w", err)
	}

	a := &API{
		cfg:    cfg,
		store:  newStore(),
		tokens: tokens,
		hasher: password.NewBcryptHasher(password.WithCost(cfg.BcryptCost)),
		items:  DefaultItems(),
		log:    log.WithComponent("mockapi"),
	}
	for _, u := range cfg.Users {
		if err := a.AddUser(u.Email, u.Password); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// AddUser registers a player with a bcrypt-hashed password.
func (a *API) AddUser(email, pw string) error {
	hash, err := a.hasher.Hash(pw)
	if err != nil {
		return fmt.Errorf("mockapi: add user %s: %w", email, err)
	}
	a.store.addPlayer(email, hash)
	return nil
}

// RevokeAccess invalidates every access token issued to email so far.
// Refresh tokens stay valid.
func (a *API) RevokeAccess(email string) error {
	return a.store.revoke(email)
}

// Health reports the player store. A store without players is degraded,
// since no client can log in.
func (a *API) Health(context.Context) observability.Health {
	players, sessions := a.store.counts()
	h := observability.Health{
		Name:    "store",
		Status:  observability.HealthStatusUp,
		Details: map[string]any{"players": players, "sessions": sessions},
	}
	if players == 0 {
		h.Status = observability.HealthStatusDegraded
		h.Message = "no players seeded"
	}
	return h
}

// Register mounts the endpoints on r.
func (a *API) Register(r gin.IRouter) {
	r.POST("/auth/login", a.login)
	r.POST("/auth/refresh", a.refresh)
	r.GET("/flaky", a.flaky)

	authed := r.Group("/", middleware.Auth(middleware.AuthConfig{TokenValidator: a.validateToken}))
	authed.GET("/items", a.listItems)
	authed.GET("/status", a.getStatus)
	authed.PATCH("/status", a.patchStatus)
}

func (a *API) validateToken(token string) (any, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	gen, ok := a.store.generation(claims.Email)
	if !ok {
		return nil, errUnknownUser
	}
	if claims.Generation != gen {
		return nil, errors.New("token revoked")
	}
	return claims, nil
}

func (a *API) issue(email string) (TokenPair, error) {
	gen, ok := a.store.generation(email)
	if !ok {
		return TokenPair{}, errUnknownUser
	}
	access, err := a.tokens.GenerateAccess(&PlayerClaims{Email: email, Generation: gen})
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := password.GenerateToken(refreshTokenBytes)
	if err != nil {
		return TokenPair{}, err
	}
	a.store.saveRefresh(password.Digest(refresh), email)
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.New().
		Required("email", req.Email).
		Email("email", req.Email).
		Required("password", req.Password).
		Err(); err != nil {
		server.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := a.store.player(req.Email)
	if !ok || a.hasher.Verify(req.Password, p.passwordHash) != nil {
		server.RespondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := a.issue(req.Email)
	if err != nil {
		a.log.Error("issue tokens failed", logger.ErrorFields("login", err))
		server.RespondError(c, http.StatusInternalServerError, "token issue failed")
		return
	}
	a.log.Debug("player logged in", logger.Fields("email", req.Email))
	server.RespondOK(c, pair)
}

func (a *API) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		server.RespondError(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	email, ok := a.store.takeRefresh(password.Digest(req.RefreshToken))
	if !ok {
		server.RespondError(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := a.issue(email)
	if err != nil {
		a.log.Error("issue tokens failed", logger.ErrorFields("refresh", err))
		server.RespondError(c, http.StatusInternalServerError, "token issue failed")
		return
	}
	server.RespondOK(c, pair)
}

func (a *API) listItems(c *gin.Context) {
	server.RespondOK(c, a.items)
}

func (a *API) getStatus(c *gin.Context) {
	statuses, err := a.store.statuses(claimsFrom(c).Email)
	if err != nil {
		server.RespondError(c, http.StatusNotFound, err.Error())
		return
	}
	server.RespondOK(c, statuses)
}

func (a *API) patchStatus(c *gin.Context) {
	var req statusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.New().
		Required("key", req.Key).
		OneOf("key", req.Key, StatusKeys).
		Range("value", req.Value, 0, MaxStatusValue).
		Err(); err != nil {
		server.RespondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := a.store.setStatus(claimsFrom(c).Email, req.Key, req.Value); err != nil {
		server.RespondError(c, http.StatusNotFound, err.Error())
		return
	}
	server.RespondOK(c, Status(req))
}

// flaky answers 503 for the first FlakyFailures hits of each key query value.
func (a *API) flaky(c *gin.Context) {
	hits := a.store.hitFlaky(c.Query("key"))
	if hits <= a.cfg.FlakyFailures {
		server.RespondError(c, http.StatusServiceUnavailable, "try again")
		return
	}
	server.RespondOK(c, gin.H{"attempts": hits})
}

func claimsFrom(c *gin.Context) *PlayerClaims {
	v, _ := c.Get(middleware.ClaimsKey)
	claims, _ := v.(*PlayerClaims)
	if claims == nil {
		return &PlayerClaims{}
	}
	return claims
}
