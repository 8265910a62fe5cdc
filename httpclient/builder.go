package httpclient

import (
	"net/http"
	"strings"
)

// Well-known header names.
const (
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
	HeaderRequestID   = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// ComposeURL joins base and path with exactly one separator between them.
// If either side is empty the other is returned as-is.
func ComposeURL(base, path string) string {
	if base == "" {
		return path
	}
	if path == "" {
		return base
	}
	baseSlash := strings.HasSuffix(base, "/")
	pathSlash := strings.HasPrefix(path, "/")
	switch {
	case baseSlash && pathSlash:
		return base + path[1:]
	case !baseSlash && !pathSlash:
		return base + "/" + path
	default:
		return base + path
	}
}

// buildDescriptor assembles the request for one attempt. Precedence, lowest
// first: content type, user agent and request id, default headers, per-call
// headers, then the auth header, which callers cannot override.
func (c *Client) buildDescriptor(req *Request, token, requestID string) *Descriptor {
	d := &Descriptor{
		Method:  req.Method,
		URL:     ComposeURL(c.config.BaseURL, req.Path),
		Headers: make(http.Header, len(c.config.DefaultHeaders)+len(req.Headers)+4),
	}

	if req.Method.AllowsBody() && req.Body != nil {
		d.Body = req.Body
		d.Headers.Set(HeaderContentType, contentTypeJSON)
	}
	if c.config.UserAgent != "" {
		d.Headers.Set(HeaderUserAgent, c.config.UserAgent)
	}
	if requestID != "" {
		d.Headers.Set(HeaderRequestID, requestID)
	}

	for k, v := range c.config.DefaultHeaders {
		d.Headers.Set(k, v)
	}
	for k, v := range req.Headers {
		d.Headers.Set(k, v)
	}

	if token != "" {
		d.Headers.Set(c.config.AuthHeaderName, c.config.AuthScheme+token)
	}
	return d
}
