package provider

import (
	"context"
	"time"

	"github.com/kbukum/compapol/observability"
)

// WithMetrics counts calls per outcome, records latency under operation and
// counts failures as upstream errors.
func WithMetrics[I, O any](metrics *observability.Metrics, operation string) Middleware[I, O] {
	return around(func(ctx context.Context, inner RequestResponse[I, O], input I) (O, error) {
		start := time.Now()
		out, err := inner.Execute(ctx, input)
		outcome := "ok"
		if err != nil {
			outcome = "error"
			metrics.RecordError(ctx, "upstream", inner.Name())
		}
		metrics.RecordOperation(ctx, inner.Name(), operation, outcome, time.Since(start))
		return out, err
	})
}
