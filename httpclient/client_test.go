package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/netkit/security"
)

type hookCall struct {
	name   string
	status int
	body   string
}

type hookLog struct {
	mu    sync.Mutex
	calls []hookCall
}

func (h *hookLog) hook(name string) HookFunc {
	return func(status int, body string) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.calls = append(h.calls, hookCall{name: name, status: status, body: body})
	}
}

func (h *hookLog) snapshot() []hookCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]hookCall(nil), h.calls...)
}

type fakeAuth struct {
	mu        sync.Mutex
	token     string
	next      string
	refreshOK bool
	tokenErr  error
	refreshes atomic.Int32
	fetches   atomic.Int32
}

func (a *fakeAuth) Token(context.Context) (string, error) {
	a.fetches.Add(1)
	if a.tokenErr != nil {
		return "", a.tokenErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token, nil
}

func (a *fakeAuth) Refresh(context.Context) (bool, error) {
	a.refreshes.Add(1)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.refreshOK {
		a.token = a.next
	}
	return a.refreshOK, nil
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RetryBaseDelay = 10 * time.Millisecond
	cfg.Timeout = 2 * time.Second
	return cfg
}

func newTestClient(t *testing.T, cfg Config, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithJitter(func() float64 { return 0 })}, opts...)
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	return c
}

func statusServer(t *testing.T, hits *atomic.Int32, status func(n int32) int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		w.WriteHeader(status(n))
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Do_SuccessRunsHooksInOrder(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return http.StatusOK }, `{"ok":true}`)

	log := &hookLog{}
	c := newTestClient(t, testConfig(srv.URL), WithHooks(Hooks{
		OnSuccess: log.hook("global"),
		OnError:   log.hook("global-error"),
	}))

	resp, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/items"},
		OnSuccess(log.hook("call")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, resp.Text())
	assert.Equal(t, []hookCall{
		{"global", 200, `{"ok":true}`},
		{"call", 200, `{"ok":true}`},
	}, log.snapshot())
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Do_TransientStatusUsesAllAttempts(t *testing.T) {
	for _, status := range []int{408, 425, 429, 500, 503} {
		var hits atomic.Int32
		srv := statusServer(t, &hits, func(int32) int { return status }, "busy")

		cfg := testConfig(srv.URL)
		cfg.MaxRetries = 2
		log := &hookLog{}
		c := newTestClient(t, cfg, WithHooks(Hooks{OnError: log.hook("global")}))

		_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"},
			OnError(log.hook("call")))

		var restErr *RestError
		require.ErrorAs(t, err, &restErr)
		assert.Equal(t, status, restErr.StatusCode)
		assert.Equal(t, "busy", restErr.Text())
		assert.EqualValues(t, 3, hits.Load(), "status %d", status)
		assert.Equal(t, []hookCall{{"global", status, "busy"}, {"call", status, "busy"}}, log.snapshot())
	}
}

func TestClient_Do_PermanentStatusFailsImmediately(t *testing.T) {
	for _, status := range []int{400, 403, 404, 409, 422} {
		var hits atomic.Int32
		srv := statusServer(t, &hits, func(int32) int { return status }, "nope")

		cfg := testConfig(srv.URL)
		cfg.MaxRetries = 5
		log := &hookLog{}
		c := newTestClient(t, cfg)

		_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"},
			OnError(log.hook("call")))

		require.Error(t, err)
		assert.True(t, IsHTTP(err))
		assert.Equal(t, status, StatusOf(err))
		assert.EqualValues(t, 1, hits.Load(), "status %d", status)
		assert.Len(t, log.snapshot(), 1)
	}
}

func TestClient_Do_RecoversAfterTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(n int32) int {
		if n < 3 {
			return http.StatusServiceUnavailable
		}
		return http.StatusOK
	}, "ok")

	log := &hookLog{}
	c := newTestClient(t, testConfig(srv.URL))
	resp, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/flaky"},
		WithCallHooks(Hooks{OnSuccess: log.hook("ok"), OnError: log.hook("err")}))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 3, hits.Load())
	assert.Equal(t, []hookCall{{"ok", 200, "ok"}}, log.snapshot())
}

func TestClient_Do_MaxRetriesFloor(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return 500 }, "")

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = -3
	c, err := New(cfg)
	require.NoError(t, err)
	gotCfg := c.Config()
	assert.Equal(t, 1, gotCfg.MaxAttempts())

	_, err = c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Do_RefreshAndReplay(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, "inventory")
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	auth := &fakeAuth{token: "stale", next: "fresh", refreshOK: true}
	log := &hookLog{}
	c := newTestClient(t, cfg, WithAuth(auth), WithHooks(Hooks{
		OnSuccess: log.hook("ok"),
		OnError:   log.hook("err"),
	}))

	resp, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/items"})
	require.NoError(t, err)
	assert.Equal(t, "inventory", resp.Text())
	assert.EqualValues(t, 2, hits.Load())
	assert.EqualValues(t, 1, auth.refreshes.Load())
	assert.EqualValues(t, 2, auth.fetches.Load(), "token is fetched before every send")
	assert.Equal(t, []hookCall{{"ok", 200, "inventory"}}, log.snapshot())
}

func TestClient_Do_RefreshAtMostOncePerCall(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return http.StatusUnauthorized }, "denied")

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	auth := &fakeAuth{token: "a", next: "b", refreshOK: true}
	log := &hookLog{}
	c := newTestClient(t, cfg, WithAuth(auth))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"},
		OnError(log.hook("err")))

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 1, auth.refreshes.Load())
	assert.EqualValues(t, 2, hits.Load())
	assert.Equal(t, []hookCall{{"err", 401, "denied"}}, log.snapshot())
}

func TestClient_Do_RefreshFailureIsTerminal(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return http.StatusUnauthorized }, "")

	auth := &fakeAuth{token: "a", refreshOK: false}
	c := newTestClient(t, testConfig(srv.URL), WithAuth(auth))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, 401, StatusOf(err))
	assert.EqualValues(t, 1, hits.Load())
	assert.EqualValues(t, 1, auth.refreshes.Load())
}

func TestClient_Do_RefreshErrorCountsAsFailure(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return http.StatusUnauthorized }, "")

	auth := AuthFuncs{
		TokenFunc:   func(context.Context) (string, error) { return "a", nil },
		RefreshFunc: func(context.Context) (bool, error) { return true, errors.New("refresh endpoint down") },
	}
	c := newTestClient(t, testConfig(srv.URL), WithAuth(auth))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Do_AutoRefreshDisabled(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return http.StatusUnauthorized }, "")

	cfg := testConfig(srv.URL)
	cfg.AutoRefreshToken = false
	auth := &fakeAuth{token: "a", refreshOK: true}
	c := newTestClient(t, cfg, WithAuth(auth))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.EqualValues(t, 0, auth.refreshes.Load())
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Do_TokenErrorIsTerminal(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return 200 }, "")

	auth := &fakeAuth{tokenErr: errors.New("keychain locked")}
	log := &hookLog{}
	c := newTestClient(t, testConfig(srv.URL), WithAuth(auth))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"},
		OnError(log.hook("err")))
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, StatusTransportError, StatusOf(err))
	assert.EqualValues(t, 0, hits.Load())
	assert.Len(t, log.snapshot(), 1)
}

func TestClient_Do_TimeoutBecomes408(t *testing.T) {
	var sends atomic.Int32
	transport := TransportFunc(func(ctx context.Context, d *Descriptor) (*Response, error) {
		sends.Add(1)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	cfg := testConfig("https://api.test")
	cfg.Timeout = 20 * time.Millisecond
	cfg.MaxRetries = 1
	log := &hookLog{}
	c := newTestClient(t, cfg, WithTransport(transport))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/slow"},
		OnError(log.hook("err")))

	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, StatusRequestTimeout, StatusOf(err))
	assert.False(t, errors.Is(err, context.Canceled))
	assert.EqualValues(t, 2, sends.Load())
	calls := log.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, 408, calls[0].status)
}

func TestClient_Do_TransportErrorBecomesMinusOne(t *testing.T) {
	var sends atomic.Int32
	boom := errors.New("connection reset by peer")
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		sends.Add(1)
		return nil, boom
	})

	cfg := testConfig("https://api.test")
	cfg.MaxRetries = 2
	log := &hookLog{}
	c := newTestClient(t, cfg, WithTransport(transport))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"},
		OnError(log.hook("err")))

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 3, sends.Load())
	assert.Equal(t, []hookCall{{"err", -1, boom.Error()}}, log.snapshot())
}

func TestClient_Do_NestedRestErrorFollowsStatusRule(t *testing.T) {
	var sends atomic.Int32
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		sends.Add(1)
		return nil, NewHTTPError(http.StatusConflict, []byte("conflict"))
	})

	cfg := testConfig("https://api.test")
	cfg.MaxRetries = 4
	c := newTestClient(t, cfg, WithTransport(transport))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.EqualValues(t, 1, sends.Load())
}

func TestClient_Do_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sends atomic.Int32
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		sends.Add(1)
		cancel()
		return &Response{StatusCode: http.StatusServiceUnavailable}, nil
	})

	cfg := testConfig("https://api.test")
	cfg.RetryBaseDelay = time.Hour
	log := &hookLog{}
	c := newTestClient(t, cfg, WithTransport(transport), WithHooks(Hooks{
		OnSuccess: log.hook("ok"),
		OnError:   log.hook("err"),
	}))

	start := time.Now()
	_, err := c.Do(ctx, &Request{Method: MethodGet, Path: "/x"})

	assert.ErrorIs(t, err, context.Canceled)
	_, isRest := AsRestError(err)
	assert.False(t, isRest)
	assert.Less(t, time.Since(start), time.Second)
	assert.EqualValues(t, 1, sends.Load())
	assert.Empty(t, log.snapshot())
	assert.Zero(t, c.InFlight())
}

func TestClient_Do_CancelDuringSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	transport := TransportFunc(func(ctx context.Context, _ *Descriptor) (*Response, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})

	log := &hookLog{}
	c := newTestClient(t, testConfig("https://api.test"), WithTransport(transport))
	_, err := c.Do(ctx, &Request{Method: MethodGet, Path: "/x"}, OnError(log.hook("err")))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, log.snapshot())
}

func TestClient_Do_GateLimitsConcurrency(t *testing.T) {
	var current, peak atomic.Int32
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		current.Add(-1)
		return &Response{StatusCode: 200}, nil
	})

	cfg := testConfig("https://api.test")
	cfg.MaxConcurrentRequests = 2
	c := newTestClient(t, cfg, WithTransport(transport))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Zero(t, c.InFlight())
}

func TestClient_Do_GateSerializesSingleSlot(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		started <- struct{}{}
		<-release
		return &Response{StatusCode: 200}, nil
	})

	cfg := testConfig("https://api.test")
	cfg.MaxConcurrentRequests = 1
	c := newTestClient(t, cfg, WithTransport(transport))

	done := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
			done <- err
		}()
	}

	<-started
	select {
	case <-started:
		t.Fatal("second call must not send while the first holds the slot")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)
}

func TestClient_Do_GateWaitHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		close(entered)
		<-release
		return &Response{StatusCode: 200}, nil
	})

	cfg := testConfig("https://api.test")
	cfg.MaxConcurrentRequests = 1
	c := newTestClient(t, cfg, WithTransport(transport))

	go func() { _, _ = c.Do(context.Background(), &Request{Method: MethodGet, Path: "/a"}) }()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Do(ctx, &Request{Method: MethodGet, Path: "/b"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestClient_Do_HookPanicIsIsolated(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return 200 }, "fine")

	log := &hookLog{}
	c := newTestClient(t, testConfig(srv.URL), WithHooks(Hooks{
		OnSuccess: func(int, string) { panic("ui destroyed") },
	}))

	resp, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"},
		OnSuccess(log.hook("call")))
	require.NoError(t, err)
	assert.Equal(t, "fine", resp.Text())
	assert.Len(t, log.snapshot(), 1, "per-call hook still runs after a global hook panics")
}

func TestClient_Do_RequestIDStableAcrossAttempts(t *testing.T) {
	var ids []string
	var mu sync.Mutex
	transport := TransportFunc(func(_ context.Context, d *Descriptor) (*Response, error) {
		mu.Lock()
		ids = append(ids, d.Headers.Get(HeaderRequestID))
		mu.Unlock()
		return &Response{StatusCode: 502}, nil
	})

	c := newTestClient(t, testConfig("https://api.test"), WithTransport(transport))
	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)

	require.Len(t, ids, 3)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, ids[0], ids[2])
}

func TestClient_Do_SendsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/status", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v2", r.Header.Get("X-Api-Version"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"level":3}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.DefaultHeaders = map[string]string{"X-Api-Version": "v1"}
	c := newTestClient(t, cfg, WithAuth(&fakeAuth{token: "t"}))

	resp, err := c.Do(context.Background(), &Request{
		Method: MethodPatch,
		Path:   "status",
		Body:   []byte(`{"level":3}`),
	}, WithHeader("X-Api-Version", "v2"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestClient_Do_InvalidMethod(t *testing.T) {
	c := newTestClient(t, testConfig("https://api.test"))
	_, err := c.Do(context.Background(), &Request{Method: "TRACE", Path: "/x"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestClient_ConfigIsCopied(t *testing.T) {
	cfg := testConfig("https://api.test")
	cfg.DefaultHeaders = map[string]string{"X-A": "1"}
	c := newTestClient(t, cfg)

	cfg.DefaultHeaders["X-A"] = "2"
	cfg.BaseURL = "https://elsewhere"

	got := c.Config()
	assert.Equal(t, "1", got.DefaultHeaders["X-A"])
	assert.Equal(t, "https://api.test", got.BaseURL)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "not a url"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.RateLimit = -1
	_, err = New(cfg)
	assert.Error(t, err)
}

type countingRecorder struct {
	nopRecorder
	attempts, retries, refreshes atomic.Int32
	inFlight, acquired           atomic.Int32
	outcome                      atomic.Value
}

func (r *countingRecorder) RecordInFlight(delta int) {
	if delta > 0 {
		r.acquired.Add(1)
	}
	r.inFlight.Add(int32(delta))
}

func (r *countingRecorder) RecordAttempt(context.Context, string, int) { r.attempts.Add(1) }
func (r *countingRecorder) RecordRetry(context.Context, string, int, time.Duration, string) {
	r.retries.Add(1)
}
func (r *countingRecorder) RecordRefresh(context.Context, bool) { r.refreshes.Add(1) }
func (r *countingRecorder) RecordCall(_ context.Context, _ string, _ int, outcome string, _ time.Duration) {
	r.outcome.Store(outcome)
}

func TestClient_Do_ReportsToRecorder(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(n int32) int {
		switch n {
		case 1:
			return http.StatusUnauthorized
		case 2:
			return http.StatusBadGateway
		default:
			return http.StatusOK
		}
	}, "")

	rec := &countingRecorder{}
	c := newTestClient(t, testConfig(srv.URL),
		WithAuth(&fakeAuth{token: "a", next: "b", refreshOK: true}),
		WithRecorder(rec))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, rec.attempts.Load())
	assert.EqualValues(t, 1, rec.retries.Load())
	assert.EqualValues(t, 1, rec.refreshes.Load())
	assert.Equal(t, OutcomeSuccess, rec.outcome.Load())
	assert.EqualValues(t, 1, rec.acquired.Load())
	assert.Zero(t, rec.inFlight.Load())
}

func TestClient_Do_UnboundedSkipsInFlightGauge(t *testing.T) {
	transport := TransportFunc(func(context.Context, *Descriptor) (*Response, error) {
		return &Response{StatusCode: 200}, nil
	})
	cfg := testConfig("https://api.test")
	cfg.MaxConcurrentRequests = 0
	rec := &countingRecorder{}
	c := newTestClient(t, cfg, WithTransport(transport), WithRecorder(rec))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Zero(t, rec.acquired.Load())
}

func TestClient_Close(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return 200 }, "")
	c := newTestClient(t, testConfig(srv.URL))

	_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)
	c.Close()
	_, err = c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())

	// Custom transports without an idle pool are left alone.
	custom := newTestClient(t, testConfig("https://api.test"), WithTransport(TransportFunc(
		func(context.Context, *Descriptor) (*Response, error) { return &Response{StatusCode: 200}, nil })))
	custom.Close()
}

func TestClient_Do_RateLimited(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, func(int32) int { return 200 }, "")

	cfg := testConfig(srv.URL)
	cfg.RateLimit = 1000
	cfg.RateBurst = 1
	c := newTestClient(t, cfg)

	for range 3 {
		_, err := c.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, hits.Load())
}

func TestClient_Do_TLSSkipVerify(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	plain, err := New(cfg)
	require.NoError(t, err)
	_, err = plain.Do(context.Background(), &Request{Method: MethodGet, Path: "/"})
	require.Error(t, err)
	assert.True(t, IsTransport(err), "self-signed certificate must be rejected by default")

	cfg.TLS = &security.TLSConfig{SkipVerify: true}
	insecure, err := New(cfg)
	require.NoError(t, err)
	resp, err := insecure.Do(context.Background(), &Request{Method: MethodGet, Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text())
}

func TestNew_RejectsBadTLSConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TLS = &security.TLSConfig{CertFile: "cert.pem"}
	_, err := New(cfg)
	require.Error(t, err)

	cfg.TLS = &security.TLSConfig{CAFile: "/nonexistent/ca.pem"}
	_, err = New(cfg)
	require.Error(t, err)
}
