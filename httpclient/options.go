package httpclient

import (
	"net/http"

	"github.com/kbukum/netkit/logger"
)

// Option configures a Client at construction.
type Option func(*Client)

// WithAuth sets the auth collaborator. Without one no auth header is sent.
func WithAuth(p AuthProvider) Option {
	return func(c *Client) { c.auth = p }
}

// WithHooks registers global hooks, invoked before any per-call hooks.
func WithHooks(h Hooks) Option {
	return func(c *Client) { c.hooks.global = h }
}

// WithTransport replaces the transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithHTTPClient sends through hc instead of a default net/http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.transport = NewHTTPTransport(hc) }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRecorder sets the observer of attempts, retries, refreshes and calls.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithJitter replaces the backoff jitter source. fn returns a value in [0, 1).
func WithJitter(fn func() float64) Option {
	return func(c *Client) { c.jitter = fn }
}

// CallOption customises one logical call.
type CallOption func(*Request)

// WithHeader sets a per-call header. Per-call headers override default headers.
func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithHeaders sets several per-call headers.
func WithHeaders(headers map[string]string) CallOption {
	return func(r *Request) {
		for k, v := range headers {
			WithHeader(k, v)(r)
		}
	}
}

// WithCallHooks sets both per-call hooks.
func WithCallHooks(h Hooks) CallOption {
	return func(r *Request) { r.Hooks = h }
}

// OnSuccess sets the per-call success hook.
func OnSuccess(fn HookFunc) CallOption {
	return func(r *Request) { r.Hooks.OnSuccess = fn }
}

// OnError sets the per-call error hook.
func OnError(fn HookFunc) CallOption {
	return func(r *Request) { r.Hooks.OnError = fn }
}
