// Package server provides a Gin-based HTTP server with the standard
// middleware stack and operational endpoints.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - RequestLogger: Request logging with duration tracking
//   - Auth: Bearer token authentication
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /healthz: Health check aggregation
//   - /version: Build version information
//   - /metrics: Prometheus exposition
package server
