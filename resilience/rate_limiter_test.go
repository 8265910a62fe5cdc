package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiter_BurstPassesWithoutWaiting(t *testing.T) {
	var limited atomic.Int32
	rl := NewRateLimiter(RateLimiterConfig{
		Name:    "api",
		Rate:    1,
		Burst:   3,
		OnLimit: func(string) { limited.Add(1) },
	})

	start := time.Now()
	for i := range 3 {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("burst should not wait, took %v", time.Since(start))
	}
	if limited.Load() != 0 {
		t.Errorf("expected no limit callbacks, got %d", limited.Load())
	}
}

func TestRateLimiter_WaitPacesSends(t *testing.T) {
	var limited atomic.Int32
	rl := NewRateLimiter(RateLimiterConfig{
		Name:  "api",
		Rate:  100,
		Burst: 1,
		OnLimit: func(name string) {
			if name != "api" {
				t.Errorf("unexpected name %q", name)
			}
			limited.Add(1)
		},
	})

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	// One token every 10ms at 100/s.
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond || elapsed > 100*time.Millisecond {
		t.Errorf("expected a wait around 10ms, got %v", elapsed)
	}
	if limited.Load() != 1 {
		t.Errorf("expected 1 limit callback, got %d", limited.Load())
	}
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "slow", Rate: 1, Burst: 1})
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	if err := rl.Wait(canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		config    RateLimiterConfig
		wantRate  float64
		wantBurst int
	}{
		{"zero", RateLimiterConfig{}, 10, 10},
		{"fractional rate", RateLimiterConfig{Rate: 0.5}, 0.5, 1},
		{"explicit", RateLimiterConfig{Rate: 42, Burst: 100}, 42, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rl := NewRateLimiter(tc.config)
			if rl.Rate() != tc.wantRate || rl.Burst() != tc.wantBurst {
				t.Errorf("got %v/%d, want %v/%d", rl.Rate(), rl.Burst(), tc.wantRate, tc.wantBurst)
			}
		})
	}
}
