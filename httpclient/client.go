package httpclient

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/netkit/logger"
	"github.com/kbukum/netkit/observability"
	"github.com/kbukum/netkit/resilience"
)

const logBodyLimit = 2048

// Client performs JSON REST calls with bounded concurrency, retry with
// exponential backoff and a single 401 refresh-and-replay per call.
// A Client is safe for concurrent use.
type Client struct {
	config    Config
	auth      AuthProvider
	transport Transport
	gate      *resilience.Gate
	limiter   *resilience.RateLimiter
	backoff   resilience.Backoff
	jitter    func() float64
	hooks     dispatcher
	recorder  Recorder
	log       *logger.Logger
}

// New creates a client from cfg. cfg is copied; later changes to it are not observed.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:   cfg,
		recorder: nopRecorder{},
		log:      logger.WithComponent("httpclient").WithFields(logger.Fields(logger.FieldOperation, cfg.Name)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		transport, err := defaultTransport(cfg.TLS)
		if err != nil {
			return nil, err
		}
		c.transport = transport
	}
	c.hooks.log = c.log
	c.gate = resilience.NewGate(resilience.GateConfig{
		Name:          cfg.Name,
		MaxConcurrent: cfg.MaxConcurrentRequests,
		OnAcquire:     func(string) { c.recorder.RecordInFlight(1) },
		OnRelease:     func(string) { c.recorder.RecordInFlight(-1) },
	})
	if cfg.RateLimit > 0 {
		c.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  cfg.Name,
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
			OnLimit: func(name string) {
				c.log.Debug("rate limited", logger.Fields(logger.FieldOperation, name))
			},
		})
	}
	c.backoff = resilience.NewBackoff(cfg.RetryBaseDelay)
	if c.jitter != nil {
		c.backoff = c.backoff.WithJitterSource(c.jitter)
	}

	fields := logger.Fields(
		logger.FieldURL, cfg.BaseURL,
		logger.FieldMaxAttempt, cfg.MaxAttempts(),
		"max_concurrent", c.gate.Limit(),
		"backoff_base_ms", c.backoff.Base().Milliseconds(),
	)
	if c.limiter != nil {
		fields["rate_limit"] = c.limiter.Rate()
		fields["rate_burst"] = c.limiter.Burst()
	}
	c.log.Debug("client created", fields)

	return c, nil
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.config.clone()
}

// InFlight returns the number of logical calls currently holding a gate slot.
func (c *Client) InFlight() int {
	return c.gate.InUse()
}

// Close releases idle pooled connections held by the transport. The client
// stays usable afterwards.
func (c *Client) Close() {
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
}

// Do executes one logical call. It waits for a gate slot, then sends the
// request until it succeeds, fails terminally or ctx is done.
//
// A 2xx response is returned as-is after the success hooks have run. Any
// terminal failure is a *RestError and the error hooks have run exactly once.
// If ctx is canceled or its deadline passes, ctx's error is returned
// unwrapped and no hooks run.
func (c *Client) Do(ctx context.Context, req *Request, opts ...CallOption) (*Response, error) {
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
	}

	call := *req
	call.Headers = maps.Clone(req.Headers)
	for _, opt := range opts {
		opt(&call)
	}

	start := time.Now()
	requestID := uuid.NewString()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(call.Method)),
			attribute.String("url.path", call.Path),
			attribute.String(observability.AttrRequestID, requestID),
		),
	)
	defer span.End()

	resp, err := c.execute(ctx, &call, requestID)

	status, outcome := 0, OutcomeSuccess
	if err != nil {
		outcome = OutcomeCanceled
		if restErr, ok := AsRestError(err); ok {
			outcome, status = OutcomeError, restErr.StatusCode
		}
	} else {
		status = resp.StatusCode
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int(observability.AttrStatus, status))
	c.recorder.RecordCall(ctx, string(call.Method), status, outcome, time.Since(start))

	return resp, err
}

// execute holds the gate slot for the whole call, including backoff waits.
func (c *Client) execute(ctx context.Context, call *Request, requestID string) (*Response, error) {
	return resilience.ExecuteWithResult(c.gate, ctx, func() (*Response, error) {
		return c.attempts(ctx, call, requestID)
	})
}

func (c *Client) attempts(ctx context.Context, call *Request, requestID string) (*Response, error) {
	log := c.log.WithContext(ctx)
	maxAttempts := c.config.MaxAttempts()
	refreshed := false

	for attempt := 1; ; attempt++ {
		token, err := c.token(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, c.fail(log, call, NewAuthError(err))
		}

		d := c.buildDescriptor(call, token, requestID)
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		c.recorder.RecordAttempt(ctx, string(d.Method), attempt)
		c.logRequest(log, d, attempt)
		sent := time.Now()
		resp, err := c.send(ctx, d)
		if err == nil {
			c.logResponse(log, d, resp, time.Since(sent))
		}

		var failure *RestError
		retry := false
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.As(err, &failure) {
				retry = failure.Transient()
			} else {
				failure = NewTransportError(err)
				retry = true
			}

		case resp.IsSuccess():
			c.hooks.success(call.Hooks, resp.StatusCode, resp.Text())
			return resp, nil

		case resp.StatusCode == http.StatusUnauthorized && c.canRefresh() && !refreshed:
			refreshed = true
			ok, err := c.refresh(ctx, log)
			if err != nil {
				return nil, err
			}
			if ok {
				// The replay does not count against the attempt budget.
				attempt--
				continue
			}
			failure = NewHTTPError(resp.StatusCode, resp.Body)

		default:
			failure = NewHTTPError(resp.StatusCode, resp.Body)
			retry = failure.Transient()
		}

		if !retry || attempt >= maxAttempts {
			return nil, c.fail(log, call, failure)
		}

		delay := c.backoff.Delay(attempt)
		log.Warn("retrying request", logger.Fields(
			logger.FieldMethod, string(d.Method),
			logger.FieldURL, d.URL,
			logger.FieldStatus, failure.StatusCode,
			logger.FieldAttempt, attempt,
			logger.FieldMaxAttempt, maxAttempts,
			logger.FieldDelay, delay.Milliseconds(),
			logger.FieldError, failure.Error(),
		))
		c.recorder.RecordRetry(ctx, string(d.Method), attempt, delay, failure.Kind.String())
		trace.SpanFromContext(ctx).AddEvent("retry", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.Int64("delay_ms", delay.Milliseconds()),
		))

		if err := resilience.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) canRefresh() bool {
	return c.config.AutoRefreshToken && c.auth != nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.auth == nil {
		return "", nil
	}
	return c.auth.Token(ctx)
}

// refresh asks the auth collaborator for a new token. A refresh error counts
// as an unsuccessful refresh unless ctx is done.
func (c *Client) refresh(ctx context.Context, log *logger.Logger) (bool, error) {
	ok, err := c.auth.Refresh(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		log.Warn("token refresh failed", logger.ErrorFields("refresh", err))
		ok = false
	}
	c.recorder.RecordRefresh(ctx, ok)
	log.Debug("token refreshed after 401", logger.Fields(logger.FieldRefreshed, ok))
	return ok, nil
}

// send performs one physical send under the per-attempt timeout. Expiry of
// the attempt deadline while ctx is still live becomes a timeout RestError.
func (c *Client) send(ctx context.Context, d *Descriptor) (*Response, error) {
	if c.config.Timeout <= 0 {
		return c.transport.Send(ctx, d)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.transport.Send(attemptCtx, d)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return nil, NewTimeoutError(err)
	}
	return resp, err
}

func (c *Client) fail(log *logger.Logger, call *Request, failure *RestError) *RestError {
	log.Debug("request failed", logger.Fields(
		logger.FieldMethod, string(call.Method),
		logger.FieldURL, ComposeURL(c.config.BaseURL, call.Path),
		logger.FieldStatus, failure.StatusCode,
		logger.FieldError, failure.Error(),
	))
	c.hooks.failure(call.Hooks, failure.StatusCode, failure.Text())
	return failure
}

func (c *Client) logRequest(log *logger.Logger, d *Descriptor, attempt int) {
	if !c.config.LogRequests {
		return
	}
	fields := logger.Fields(
		logger.FieldMethod, string(d.Method),
		logger.FieldURL, d.URL,
		logger.FieldAttempt, attempt,
	)
	if d.Body != nil {
		fields[logger.FieldBody] = logger.Truncate(string(d.Body), logBodyLimit)
	}
	log.Info("http request", fields)
}

func (c *Client) logResponse(log *logger.Logger, d *Descriptor, resp *Response, took time.Duration) {
	if !c.config.LogResponses {
		return
	}
	log.Info("http response", logger.Fields(
		logger.FieldMethod, string(d.Method),
		logger.FieldURL, d.URL,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, took.Milliseconds(),
		logger.FieldBody, logger.Truncate(resp.Text(), logBodyLimit),
	))
}
