// Package server provides the HTTP server: a Gin engine behind h2c with a
// handler-level middleware stack and the health endpoints.
//
// # Middleware
//
// Applied by ApplyMiddleware, outermost first (server/middleware):
//
//   - Recovery: panics become a logged 500 {"error": ...}
//   - RequestID: X-Request-Id generation and propagation into the log context
//   - RequestLogger: one structured line per request, health checks skipped
//   - CORS: configured origins, preflight answered with 204
//   - BodySizeLimit: 413 for declared lengths above the limit, capped readers otherwise
//   - GinMetrics: per-route request metrics when telemetry is on
//
// # Endpoints
//
// Registered by RegisterDefaultEndpoints (server/endpoint):
//
//   - GET /healthz and GET /: liveness, {"ok": true, "time": ...}
//   - GET /health: component health aggregation
//   - GET /info: build version and uptime
package server
