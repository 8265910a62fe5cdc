package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel status codes carried by RestError for failures without an HTTP status.
const (
	// StatusTransportError marks a failure below HTTP (DNS, refused, reset, ...).
	StatusTransportError = -1
	// StatusRequestTimeout marks an attempt that ran out of time.
	StatusRequestTimeout = http.StatusRequestTimeout
)

// ErrInvalidMethod is returned for verbs outside GET/POST/PUT/PATCH/DELETE.
var ErrInvalidMethod = errors.New("httpclient: unsupported method")

// ErrorKind classifies a RestError.
type ErrorKind int

const (
	// KindHTTP is a non-2xx response classified by the server.
	KindHTTP ErrorKind = iota
	// KindTimeout is an attempt budget exhausted under time pressure (408).
	KindTimeout
	// KindTransport is a non-HTTP failure such as DNS or a connection reset (-1).
	KindTransport
	// KindDecode is a 2xx response whose body could not be mapped to the requested shape.
	KindDecode
	// KindAuth is a failure of the auth provider to supply a token (-1).
	KindAuth
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// RestError is the error surfaced by the client for every terminal failure
// except cancellation, which is returned unchanged.
type RestError struct {
	// StatusCode is the HTTP status, StatusTransportError or StatusRequestTimeout.
	StatusCode int
	// Kind classifies the error.
	Kind ErrorKind
	// Message describes the error.
	Message string
	// Body is the raw response body, or the underlying error text for
	// timeout and transport failures.
	Body []byte
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *RestError) Error() string {
	return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
}

// Unwrap returns the underlying error.
func (e *RestError) Unwrap() error {
	return e.Err
}

// Text returns the body as a string.
func (e *RestError) Text() string {
	return string(e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *RestError) Transient() bool {
	return IsTransientStatus(e.StatusCode)
}

// NewHTTPError creates an error for a non-2xx response.
func NewHTTPError(statusCode int, body []byte) *RestError {
	msg := http.StatusText(statusCode)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}
	return &RestError{
		StatusCode: statusCode,
		Kind:       KindHTTP,
		Message:    msg,
		Body:       body,
	}
}

// NewTimeoutError creates a terminal timeout error.
func NewTimeoutError(err error) *RestError {
	return &RestError{
		StatusCode: StatusRequestTimeout,
		Kind:       KindTimeout,
		Message:    "Request Timeout",
		Body:       []byte(err.Error()),
		Err:        err,
	}
}

// NewTransportError creates a terminal transport error.
func NewTransportError(err error) *RestError {
	return &RestError{
		StatusCode: StatusTransportError,
		Kind:       KindTransport,
		Message:    "Transport Error",
		Body:       []byte(err.Error()),
		Err:        err,
	}
}

// NewAuthError creates an error for a failed token fetch.
func NewAuthError(err error) *RestError {
	return &RestError{
		StatusCode: StatusTransportError,
		Kind:       KindAuth,
		Message:    "Token Error",
		Body:       []byte(err.Error()),
		Err:        err,
	}
}

// NewDecodeError creates an error for a successful response that could not be decoded.
func NewDecodeError(statusCode int, body []byte, msg string, err error) *RestError {
	return &RestError{
		StatusCode: statusCode,
		Kind:       KindDecode,
		Message:    msg,
		Body:       body,
		Err:        err,
	}
}

// IsTransientStatus reports whether a status is likely to succeed on retry:
// 408, 425, 429 and every 5xx.
func IsTransientStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return status >= 500 && status <= 599
}

// AsRestError extracts a *RestError from err.
func AsRestError(err error) (*RestError, bool) {
	var e *RestError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the status carried by err, or 0 when err is not a RestError.
func StatusOf(err error) int {
	if e, ok := AsRestError(err); ok {
		return e.StatusCode
	}
	return 0
}

// IsHTTP checks if an error is a server-classified HTTP error.
func IsHTTP(err error) bool { return isKind(err, KindHTTP) }

// IsTimeout checks if an error is a terminal timeout.
func IsTimeout(err error) bool { return isKind(err, KindTimeout) }

// IsTransport checks if an error is a terminal transport failure.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsDecode checks if an error is a decode failure.
func IsDecode(err error) bool { return isKind(err, KindDecode) }

// IsAuth checks if an error is a token fetch failure.
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsUnauthorized checks if an error is an HTTP 401.
func IsUnauthorized(err error) bool {
	return IsHTTP(err) && StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound checks if an error is an HTTP 404.
func IsNotFound(err error) bool {
	return IsHTTP(err) && StatusOf(err) == http.StatusNotFound
}

func isKind(err error, kind ErrorKind) bool {
	e, ok := AsRestError(err)
	return ok && e.Kind == kind
}
