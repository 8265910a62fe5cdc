package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/netkit/auth/jwt"
	"github.com/kbukum/netkit/httpclient/rest"
	"github.com/kbukum/netkit/logger"
	"github.com/kbukum/netkit/observability"
)

// Defaults for RefreshingProvider.
const (
	DefaultRefreshPath = "/auth/refresh"
	DefaultDataPath    = "data"
	DefaultLeeway      = 30 * time.Second
)

// RefreshingOption configures a RefreshingProvider.
type RefreshingOption func(*RefreshingProvider)

// WithRefreshPath sets the refresh endpoint path.
func WithRefreshPath(path string) RefreshingOption {
	return func(p *RefreshingProvider) { p.refreshPath = path }
}

// WithDataPath sets the gjson path of the token pair in refresh responses.
// An empty path decodes the whole body.
func WithDataPath(path string) RefreshingOption {
	return func(p *RefreshingProvider) { p.dataPath = path }
}

// WithLeeway sets how long before exp a JWT access token is renewed
// proactively. A negative leeway disables proactive renewal.
func WithLeeway(d time.Duration) RefreshingOption {
	return func(p *RefreshingProvider) { p.leeway = d }
}

// WithProviderLogger sets the logger.
func WithProviderLogger(l *logger.Logger) RefreshingOption {
	return func(p *RefreshingProvider) { p.log = l }
}

// RefreshingProvider holds an access/refresh token pair and renews it
// through the refresh endpoint. Concurrent refreshes share one request.
// It is safe for concurrent use.
type RefreshingProvider struct {
	client      *rest.Client
	refreshPath string
	dataPath    string
	leeway      time.Duration
	log         *logger.Logger
	now         func() time.Time

	mu    sync.RWMutex
	pair  TokenPair
	group singleflight.Group
}

// NewRefreshingProvider creates a provider seeded with pair. client must not
// itself authenticate through this provider.
func NewRefreshingProvider(client *rest.Client, pair TokenPair, opts ...RefreshingOption) *RefreshingProvider {
	p := &RefreshingProvider{
		client:      client,
		refreshPath: DefaultRefreshPath,
		dataPath:    DefaultDataPath,
		leeway:      DefaultLeeway,
		log:         logger.WithComponent("auth"),
		now:         time.Now,
		pair:        pair,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tokens returns the current token pair.
func (p *RefreshingProvider) Tokens() TokenPair {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pair
}

// SetTokens replaces the token pair, e.g. after a fresh login.
func (p *RefreshingProvider) SetTokens(pair TokenPair) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pair = pair
}

// Clear forgets both tokens. Subsequent requests are sent without auth.
func (p *RefreshingProvider) Clear() {
	p.SetTokens(TokenPair{})
}

// Token implements httpclient.AuthProvider. A JWT access token that expires
// within the leeway is renewed first; if renewal fails the current token is
// returned and the server decides.
func (p *RefreshingProvider) Token(ctx context.Context) (string, error) {
	pair := p.Tokens()
	if !p.expiring(pair) {
		return pair.AccessToken, nil
	}

	ok, err := p.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.log.Warn("proactive token refresh failed", logger.ErrorFields("refresh", err))
	}
	if ok {
		return p.Tokens().AccessToken, nil
	}
	return pair.AccessToken, nil
}

func (p *RefreshingProvider) expiring(pair TokenPair) bool {
	if p.leeway < 0 || pair.AccessToken == "" || pair.RefreshToken == "" {
		return false
	}
	exp, ok := jwt.PeekExpiry(pair.AccessToken)
	return ok && !p.now().Add(p.leeway).Before(exp)
}

// Refresh implements httpclient.AuthProvider. It reports false without a
// request when no refresh token is held. Callers that arrive while a refresh
// is in flight wait for its result instead of starting another.
func (p *RefreshingProvider) Refresh(ctx context.Context) (bool, error) {
	current := p.Tokens().RefreshToken
	if current == "" {
		return false, nil
	}

	// The shared request outlives any single caller's cancellation; it is
	// bounded by the refresh client's own timeout and retry budget.
	flightCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan("refresh", func() (any, error) {
		return p.refresh(flightCtx, current)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (p *RefreshingProvider) refresh(ctx context.Context, refreshToken string) (bool, error) {
	// A flight that finished after the caller read its token already rotated it.
	if held := p.Tokens().RefreshToken; held != refreshToken {
		return held != "", nil
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanTokenRefresh)
	defer span.End()

	var opts []rest.Option
	if p.dataPath != "" {
		opts = append(opts, rest.WithDataPath(p.dataPath))
	}

	pair, err := rest.Post[TokenPair](ctx, p.client, p.refreshPath, refreshRequest{RefreshToken: refreshToken}, opts...)
	if err == nil && pair.AccessToken == "" {
		err = ErrNoAccessToken
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		return false, err
	}

	observability.SetSpanAttribute(ctx, "auth.refresh_rotated", pair.RefreshToken != "")

	p.mu.Lock()
	p.pair.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		p.pair.RefreshToken = pair.RefreshToken
	}
	p.mu.Unlock()

	p.log.Debug("access token refreshed", logger.Fields(logger.FieldRefreshed, true))
	return true, nil
}
