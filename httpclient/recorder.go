package httpclient

import (
	"context"
	"time"
)

// Call outcomes reported to a Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Recorder observes the retry state machine. Implementations must be safe for
// concurrent use. The observability package provides OpenTelemetry and
// Prometheus implementations.
type Recorder interface {
	// RecordAttempt is called before every physical send.
	RecordAttempt(ctx context.Context, method string, attempt int)
	// RecordRetry is called before a backoff wait.
	RecordRetry(ctx context.Context, method string, attempt int, delay time.Duration, reason string)
	// RecordRefresh is called after a 401-triggered refresh.
	RecordRefresh(ctx context.Context, ok bool)
	// RecordCall is called once per logical call.
	RecordCall(ctx context.Context, method string, status int, outcome string, duration time.Duration)
	// RecordInFlight is called with +1 when a call takes a gate slot and -1
	// when it gives it back. Unbounded clients never call it.
	RecordInFlight(delta int)
}

type nopRecorder struct{}

func (nopRecorder) RecordAttempt(context.Context, string, int)                      {}
func (nopRecorder) RecordRetry(context.Context, string, int, time.Duration, string) {}
func (nopRecorder) RecordRefresh(context.Context, bool)                             {}
func (nopRecorder) RecordCall(context.Context, string, int, string, time.Duration)  {}
func (nopRecorder) RecordInFlight(int)                                              {}
