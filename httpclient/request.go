package httpclient

import (
	"fmt"
	"net/http"
)

// Method is an HTTP verb supported by the client.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// AllowsBody reports whether a body may be attached for m.
func (m Method) AllowsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// Request describes one logical call.
type Request struct {
	// Method is the HTTP verb.
	Method Method
	// Path is joined to the client's BaseURL with ComposeURL.
	Path string
	// Body is the serialised JSON body. Ignored for GET and DELETE.
	Body []byte
	// Headers are per-call headers; they win over the client's default headers.
	Headers map[string]string
	// Hooks run after the client's global hooks for this call only.
	Hooks Hooks
}

// Descriptor is a transport-ready request for a single physical send.
// A new Descriptor is built for every attempt.
type Descriptor struct {
	Method  Method
	URL     string
	Headers http.Header
	Body    []byte
}

// String returns "METHOD URL" for logs.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %s", d.Method, d.URL)
}

// Response is the result of one physical send.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
}

// Text returns the body decoded as UTF-8 text.
func (r *Response) Text() string {
	if r == nil || r.Body == nil {
		return ""
	}
	return string(r.Body)
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
