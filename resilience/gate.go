package resilience

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// GateConfig configures a concurrency gate.
type GateConfig struct {
	// Name identifies this gate for metrics/logging.
	Name string
	// MaxConcurrent is the maximum number of concurrent holders.
	// Zero or negative means unlimited: the gate is absent, not zero-capacity.
	MaxConcurrent int
	// OnAcquire is called when a slot is acquired.
	OnAcquire func(name string)
	// OnRelease is called when a slot is released.
	OnRelease func(name string)
}

// Gate bounds the number of in-flight operations.
// Unlike a fail-fast bulkhead, Acquire waits for a free slot until ctx is done.
type Gate struct {
	config GateConfig
	sem    *semaphore.Weighted
	inUse  atomic.Int64
}

// NewGate creates a gate. A non-positive MaxConcurrent yields an unbounded gate
// whose Acquire and Release are no-ops.
func NewGate(config GateConfig) *Gate {
	g := &Gate{config: config}
	if config.MaxConcurrent > 0 {
		g.sem = semaphore.NewWeighted(int64(config.MaxConcurrent))
	}
	return g
}

// Acquire blocks until a slot is free or ctx is done, in which case the
// context error is returned and no slot is held.
func (g *Gate) Acquire(ctx context.Context) error {
	if g == nil || g.sem == nil {
		return nil
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.inUse.Add(1)
	if g.config.OnAcquire != nil {
		g.config.OnAcquire(g.config.Name)
	}
	return nil
}

// Release frees a slot previously obtained with Acquire.
func (g *Gate) Release() {
	if g == nil || g.sem == nil {
		return
	}
	g.inUse.Add(-1)
	g.sem.Release(1)
	if g.config.OnRelease != nil {
		g.config.OnRelease(g.config.Name)
	}
}

// Execute runs fn while holding a slot. The slot is released on every exit
// path, including a panic in fn.
func (g *Gate) Execute(ctx context.Context, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}

// ExecuteWithResult runs a function that returns a value while holding a slot.
func ExecuteWithResult[T any](g *Gate, ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := g.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// Bounded reports whether the gate enforces a limit.
func (g *Gate) Bounded() bool {
	return g != nil && g.sem != nil
}

// InUse returns the number of slots currently held.
func (g *Gate) InUse() int {
	if g == nil {
		return 0
	}
	return int(g.inUse.Load())
}

// Limit returns the configured limit, or 0 when unbounded.
func (g *Gate) Limit() int {
	if !g.Bounded() {
		return 0
	}
	return g.config.MaxConcurrent
}
