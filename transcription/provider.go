package transcription

import (
	"context"

	"github.com/kbukum/compapol/provider"
)

// Provider is a speech-to-text backend.
type Provider interface {
	provider.Provider
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// AsRequestResponse exposes p as a RequestResponse so it can be wrapped
// with provider middleware.
func AsRequestResponse(p Provider) provider.RequestResponse[Request, *Response] {
	return &rrAdapter{p: p}
}

// FromRequestResponse turns a (possibly wrapped) RequestResponse back into
// a Provider.
func FromRequestResponse(rr provider.RequestResponse[Request, *Response]) Provider {
	return &providerAdapter{rr: rr}
}

type rrAdapter struct{ p Provider }

func (a *rrAdapter) Name() string                         { return a.p.Name() }
func (a *rrAdapter) IsAvailable(ctx context.Context) bool { return a.p.IsAvailable(ctx) }
func (a *rrAdapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.p.Transcribe(ctx, req)
}

type providerAdapter struct {
	rr provider.RequestResponse[Request, *Response]
}

func (a *providerAdapter) Name() string                         { return a.rr.Name() }
func (a *providerAdapter) IsAvailable(ctx context.Context) bool { return a.rr.IsAvailable(ctx) }
func (a *providerAdapter) Transcribe(ctx context.Context, req Request) (*Response, error) {
	return a.rr.Execute(ctx, req)
}
