package provider

import (
	"context"
	"errors"
)

// Middleware wraps a RequestResponse provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares; the first one is outermost.
// Chain(a, b, c)(p) equals a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// StatusCoder is implemented by errors that carry an upstream HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

func upstreamStatus(err error) (int, bool) {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// around turns the body of an Execute into a Middleware. Name and
// IsAvailable pass through.
func around[I, O any](fn func(ctx context.Context, inner RequestResponse[I, O], input I) (O, error)) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &wrapped[I, O]{inner: inner, fn: fn}
	}
}

type wrapped[I, O any] struct {
	inner RequestResponse[I, O]
	fn    func(ctx context.Context, inner RequestResponse[I, O], input I) (O, error)
}

func (w *wrapped[I, O]) Name() string                         { return w.inner.Name() }
func (w *wrapped[I, O]) IsAvailable(ctx context.Context) bool { return w.inner.IsAvailable(ctx) }
func (w *wrapped[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return w.fn(ctx, w.inner, input)
}
