package resilience

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestBackoff_DelayBounds(t *testing.T) {
	b := NewBackoff(100 * time.Millisecond)

	for attempt := 1; attempt <= 6; attempt++ {
		lower := b.Base() * time.Duration(1<<(attempt-1))
		upper := lower + b.Base()
		for i := 0; i < 50; i++ {
			d := b.Delay(attempt)
			if d < lower || d >= upper {
				t.Fatalf("attempt %d: delay %v outside [%v, %v)", attempt, d, lower, upper)
			}
		}
	}
}

func TestBackoff_JitterSource(t *testing.T) {
	b := NewBackoff(100 * time.Millisecond).WithJitterSource(func() float64 { return 0.5 })

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 150 * time.Millisecond},
		{2, 250 * time.Millisecond},
		{3, 450 * time.Millisecond},
		{0, 150 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := b.Delay(tc.attempt); got != tc.want {
			t.Errorf("Delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestBackoff_OutOfRangeJitterIgnored(t *testing.T) {
	b := NewBackoff(20 * time.Millisecond).WithJitterSource(func() float64 { return 1.0 })
	if got := b.Delay(1); got != 20*time.Millisecond {
		t.Errorf("expected jitter >= 1 to be discarded, got %v", got)
	}
}

func TestBackoff_BaseFloor(t *testing.T) {
	for _, base := range []time.Duration{0, -time.Second, time.Millisecond} {
		if got := NewBackoff(base).Base(); got != MinBackoffBase {
			t.Errorf("NewBackoff(%v).Base() = %v, want %v", base, got, MinBackoffBase)
		}
	}
}

func TestBackoff_LargeAttemptDoesNotOverflow(t *testing.T) {
	b := NewBackoff(MinBackoffBase).WithJitterSource(func() float64 { return 0 })
	if d := b.Delay(1000); d <= 0 {
		t.Fatalf("expected positive delay, got %v", d)
	}
}

func TestBackoff_LargeBaseSaturates(t *testing.T) {
	tests := []struct {
		base    time.Duration
		attempt int
	}{
		{10 * time.Second, 31},
		{10 * time.Second, 1000},
		{time.Hour, 25},
	}
	for _, tc := range tests {
		b := NewBackoff(tc.base).WithJitterSource(func() float64 { return 0.99 })
		if got := b.Delay(tc.attempt); got != time.Duration(math.MaxInt64) {
			t.Errorf("NewBackoff(%v).Delay(%d) = %v, want saturation", tc.base, tc.attempt, got)
		}
	}
}

func TestSleep_Completes(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("expected Sleep to wait")
	}
}

func TestSleep_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Sleep(ctx, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("expected Sleep to return promptly on cancel")
	}
}

func TestSleep_ZeroDurationReportsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
