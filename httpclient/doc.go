// Package httpclient is a resilient JSON REST client.
//
// Every logical call passes through a concurrency gate, then an attempt loop
// that fetches a token from the AuthProvider, builds a fresh Descriptor,
// sends it with a per-attempt timeout and classifies the outcome:
//
//   - 2xx: success hooks run once and the Response is returned.
//   - 401 with AutoRefreshToken: the provider refreshes once per call and the
//     request is replayed immediately, without backoff and without using an attempt.
//   - 408, 425, 429 and 5xx, timeouts and transport failures: retried with
//     exponential backoff until 1+MaxRetries attempts have been made.
//   - anything else: error hooks run once and a *RestError is returned.
//
// Cancellation of the caller's context stops the call at any suspension point
// and is returned unwrapped, without hooks.
//
// Typed helpers that encode and decode JSON live in the rest subpackage.
//
//	client, err := httpclient.New(httpclient.DefaultConfig(), httpclient.WithAuth(provider))
//	resp, err := client.Do(ctx, &httpclient.Request{Method: httpclient.MethodGet, Path: "/items"})
package httpclient
