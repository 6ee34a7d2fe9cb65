package provider

import (
	"context"

	"github.com/kbukum/compapol/observability"
)

// WithTracing runs each call in a span named "<operation>.<provider>".
func WithTracing[I, O any](operation string) Middleware[I, O] {
	return around(func(ctx context.Context, inner RequestResponse[I, O], input I) (O, error) {
		ctx, span := observability.StartSpan(ctx, operation+"."+inner.Name())
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrProvider, inner.Name())
		observability.SetSpanAttribute(ctx, observability.AttrOperation, operation)

		out, err := inner.Execute(ctx, input)
		if err != nil {
			if status, ok := upstreamStatus(err); ok {
				observability.SetSpanAttribute(ctx, observability.AttrUpstreamStatus, status)
			}
			observability.SetSpanError(ctx, err)
		}
		return out, err
	})
}
