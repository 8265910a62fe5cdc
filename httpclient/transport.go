package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kbukum/netkit/security"
)

// Transport executes a single physical send. Implementations must honour
// ctx cancellation and deadline, which carry the per-attempt timeout.
type Transport interface {
	Send(ctx context.Context, d *Descriptor) (*Response, error)
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(ctx context.Context, d *Descriptor) (*Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, d *Descriptor) (*Response, error) {
	return f(ctx, d)
}

// HTTPTransport sends descriptors with a net/http client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps hc, or a client on a clone of the default transport when hc is nil.
// Timeouts are applied per attempt through the context, so hc.Timeout should normally be zero.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}
	return &HTTPTransport{client: hc}
}

// defaultTransport builds the HTTPTransport used when no transport option is
// given, applying tlsCfg when it carries any setting.
func defaultTransport(tlsCfg *security.TLSConfig) (*HTTPTransport, error) {
	built, err := tlsCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	rt := http.DefaultTransport.(*http.Transport).Clone()
	if built != nil {
		rt.TLSClientConfig = built
	}
	return NewHTTPTransport(&http.Client{Transport: rt}), nil
}

// Send implements Transport. The whole body is read before returning.
func (t *HTTPTransport) Send(ctx context.Context, d *Descriptor) (*Response, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(d.Method), d.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range d.Headers {
		httpReq.Header[k] = v
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

// CloseIdleConnections releases pooled connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}
