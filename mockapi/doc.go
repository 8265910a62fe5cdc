// Package mockapi is an in-memory game backend used to exercise netkit
// clients end to end.
//
// It serves login and refresh with HS256 access tokens and opaque refresh
// tokens, the player's items and status values, and a /flaky endpoint that
// fails with 503 a configured number of times before succeeding. Every
// successful body is wrapped in {"data": ...}.
package mockapi
