package provider

import (
	"context"
	"time"

	"github.com/kbukum/compapol/logger"
)

// WithLogging logs each call with its duration: debug on success, warn on
// failure with the upstream status when the error carries one.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return around(func(ctx context.Context, inner RequestResponse[I, O], input I) (O, error) {
		start := time.Now()
		out, err := inner.Execute(ctx, input)

		fields := logger.Fields(
			logger.FieldProvider, inner.Name(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if err == nil {
			log.WithContext(ctx).Debug("provider call ok", fields)
			return out, nil
		}
		fields[logger.FieldError] = err.Error()
		if status, ok := upstreamStatus(err); ok {
			fields[logger.FieldStatus] = status
		}
		log.WithContext(ctx).Warn("provider call failed", fields)
		return out, err
	})
}
