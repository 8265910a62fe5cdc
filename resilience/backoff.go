package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// MinBackoffBase is the floor applied to a configured backoff base.
const MinBackoffBase = 10 * time.Millisecond

// maxBackoffShift caps the exponent so large attempt numbers cannot overflow.
const maxBackoffShift = 30

// Backoff computes jittered exponential delays:
//
//	delay(k) = base * 2^(k-1) + U[0, base)
type Backoff struct {
	base   time.Duration
	jitter func() float64
}

// NewBackoff creates a backoff policy. The base is floored at MinBackoffBase.
func NewBackoff(base time.Duration) Backoff {
	if base < MinBackoffBase {
		base = MinBackoffBase
	}
	return Backoff{base: base, jitter: rand.Float64}
}

// WithJitterSource returns a copy of b that draws jitter fractions in [0, 1) from fn.
func (b Backoff) WithJitterSource(fn func() float64) Backoff {
	b.jitter = fn
	return b
}

// Base returns the effective base duration.
func (b Backoff) Base() time.Duration {
	return b.base
}

// Delay returns the wait before the next attempt, given the number of attempts
// already made (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	if b.base > time.Duration(math.MaxInt64>>shift) {
		return time.Duration(math.MaxInt64)
	}
	delay := b.base << shift

	frac := 0.0
	if b.jitter != nil {
		frac = b.jitter()
	}
	if frac < 0 || frac >= 1 {
		frac = 0
	}
	jitter := time.Duration(frac * float64(b.base))
	if delay > time.Duration(math.MaxInt64)-jitter {
		return time.Duration(math.MaxInt64)
	}
	return delay + jitter
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
