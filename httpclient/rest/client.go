package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/netkit/httpclient"
)

// Client is a JSON-focused REST client that wraps the base HTTP client.
// Requests carry Accept: application/json unless the config overrides it.
type Client struct {
	http *httpclient.Client
}

// New creates a new REST client from the given config.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	headers := make(map[string]string, len(cfg.DefaultHeaders)+1)
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	cfg.DefaultHeaders = headers

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// Close releases idle connections of the underlying HTTP client.
func (c *Client) Close() {
	c.http.Close()
}

// Option configures a single REST call.
type Option func(*callSettings)

type callSettings struct {
	call     []httpclient.CallOption
	dataPath string
}

// WithHeader sets a per-call header.
func WithHeader(key, value string) Option {
	return func(s *callSettings) { s.call = append(s.call, httpclient.WithHeader(key, value)) }
}

// WithHeaders sets several per-call headers.
func WithHeaders(headers map[string]string) Option {
	return func(s *callSettings) { s.call = append(s.call, httpclient.WithHeaders(headers)) }
}

// WithCallHooks sets the per-call success and error hooks.
func WithCallHooks(h httpclient.Hooks) Option {
	return func(s *callSettings) { s.call = append(s.call, httpclient.WithCallHooks(h)) }
}

// OnSuccess sets the per-call success hook.
func OnSuccess(fn httpclient.HookFunc) Option {
	return func(s *callSettings) { s.call = append(s.call, httpclient.OnSuccess(fn)) }
}

// OnError sets the per-call error hook.
func OnError(fn httpclient.HookFunc) Option {
	return func(s *callSettings) { s.call = append(s.call, httpclient.OnError(fn)) }
}

// WithDataPath decodes the value at a gjson path instead of the whole body,
// e.g. "data" for {"data": {...}} envelopes.
func WithDataPath(path string) Option {
	return func(s *callSettings) { s.dataPath = path }
}

// Get performs a GET request and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...Option) (T, error) {
	return do[T](ctx, c, httpclient.MethodGet, path, nil, opts)
}

// Post sends body as JSON and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...Option) (T, error) {
	return doJSON[T](ctx, c, httpclient.MethodPost, path, body, opts)
}

// Put sends body as JSON and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...Option) (T, error) {
	return doJSON[T](ctx, c, httpclient.MethodPut, path, body, opts)
}

// Patch sends body as JSON and decodes the response into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...Option) (T, error) {
	return doJSON[T](ctx, c, httpclient.MethodPatch, path, body, opts)
}

// PostRaw sends an already serialised JSON document and decodes the response into T.
func PostRaw[T any](ctx context.Context, c *Client, path, rawJSON string, opts ...Option) (T, error) {
	return do[T](ctx, c, httpclient.MethodPost, path, []byte(rawJSON), opts)
}

// PatchRaw sends an already serialised JSON document and decodes the response into T.
func PatchRaw[T any](ctx context.Context, c *Client, path, rawJSON string, opts ...Option) (T, error) {
	return do[T](ctx, c, httpclient.MethodPatch, path, []byte(rawJSON), opts)
}

// Delete performs a DELETE request. The response body is ignored.
func Delete(ctx context.Context, c *Client, path string, opts ...Option) error {
	s := settings(opts)
	_, err := c.http.Do(ctx, &httpclient.Request{
		Method: httpclient.MethodDelete,
		Path:   path,
	}, s.call...)
	return err
}

func doJSON[T any](ctx context.Context, c *Client, method httpclient.Method, path string, body any, opts []Option) (T, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("httpclient/rest: encode request body: %w", err)
		}
	}
	return do[T](ctx, c, method, path, payload, opts)
}

func do[T any](ctx context.Context, c *Client, method httpclient.Method, path string, body []byte, opts []Option) (T, error) {
	s := settings(opts)
	resp, err := c.http.Do(ctx, &httpclient.Request{
		Method: method,
		Path:   path,
		Body:   body,
	}, s.call...)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodePath[T](resp, s.dataPath)
}

func settings(opts []Option) *callSettings {
	s := &callSettings{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
