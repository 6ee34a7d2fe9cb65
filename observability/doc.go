// Package observability wires OpenTelemetry tracing and metrics.
//
// When disabled the global no-op providers stay in place, so StartSpan and
// the Metrics instruments cost nothing. When enabled, Component installs
// OTLP/HTTP exporters on start and flushes them on stop:
//
//	tel := observability.NewComponent(cfg.Observability, "compapol", version)
//	app.RegisterComponent(tel)
//
//	ctx, span := observability.StartSpan(ctx, "draft.compose")
//	defer span.End()
package observability
