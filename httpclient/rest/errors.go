package rest

import "github.com/kbukum/netkit/httpclient"

// REST error helpers delegate to httpclient's error classification so callers
// of the typed operations don't need to import httpclient for error checks.

// Error is the error type returned by every failed call.
type Error = httpclient.RestError

// StatusOf returns the status carried by err: the HTTP status, 408 for a
// timeout, -1 for a transport or token failure, or 0 for any other error.
func StatusOf(err error) int { return httpclient.StatusOf(err) }

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsUnauthorized checks if the error is a 401 that survived refresh.
func IsUnauthorized(err error) bool { return httpclient.IsUnauthorized(err) }

// IsTimeout checks if every attempt timed out.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// IsTransport checks if the server could not be reached.
func IsTransport(err error) bool { return httpclient.IsTransport(err) }

// IsDecode checks if a successful response could not be decoded.
func IsDecode(err error) bool { return httpclient.IsDecode(err) }
