// Package rest provides typed JSON operations on top of httpclient.
//
// Each operation runs one logical call through the client's gate, retry and
// refresh machinery, then decodes the 2xx body into T:
//
//	client, _ := rest.New(httpclient.DefaultConfig(), httpclient.WithAuth(provider))
//
//	items, err := rest.Get[[]Item](ctx, client, "/items", rest.WithDataPath("data"))
//	status, err := rest.Patch[Status](ctx, client, "/status", StatusUpdate{Level: 3})
//	err = rest.Delete(ctx, client, "/items/42")
//
// Decoding into string returns the raw body text. Decode failures are
// reported as *httpclient.RestError values of kind decode; they happen after
// the success hooks have already run.
package rest
