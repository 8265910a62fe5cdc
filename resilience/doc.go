// Package resilience provides the pieces the HTTP client composes around
// every logical call. Gate bounds concurrent calls and waits for a slot
// rather than failing fast. Backoff computes jittered exponential delays.
// RateLimiter paces physical sends with a shared token bucket.
//
//	gate := resilience.NewGate(resilience.GateConfig{Name: "api", MaxConcurrent: 6})
//	backoff := resilience.NewBackoff(100 * time.Millisecond)
//	resp, err := resilience.ExecuteWithResult(gate, ctx, func() (*Response, error) {
//	    for attempt := 1; ; attempt++ {
//	        resp, err := send(ctx)
//	        if err == nil || attempt == 3 {
//	            return resp, err
//	        }
//	        if err := resilience.Sleep(ctx, backoff.Delay(attempt)); err != nil {
//	            return nil, err
//	        }
//	    }
//	})
package resilience
