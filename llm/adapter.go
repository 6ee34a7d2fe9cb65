package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/compapol/httpclient"
	"github.com/kbukum/compapol/httpclient/rest"
)

// ErrNoDialect is returned by NewWithDialect for a nil dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

// Adapter posts completion requests through a Dialect. It satisfies
// provider.RequestResponse[CompletionRequest, CompletionResponse].
type Adapter struct {
	name     string
	rest     *rest.Client
	dialect  Dialect
	defaults CompletionRequest
}

// New resolves cfg.Dialect from the registry and builds an adapter.
func New(cfg Config) (*Adapter, error) {
	dialect, err := LookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, cfg)
}

// NewWithDialect builds an adapter around an explicit dialect.
func NewWithDialect(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.Dialect == "" {
		cfg.Dialect = dialect.Name()
	}
	cfg.applyDefaults()

	client, err := rest.New(httpclient.Config{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    cfg.Auth,
		Headers: cfg.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: rest client: %w", err)
	}
	return &Adapter{
		defaults: CompletionRequest{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		name:    cfg.Name,
		rest:    client,
		dialect: dialect,
	}, nil
}

func (a *Adapter) Name() string { return a.name }

// IsAvailable is false when no base URL is configured.
func (a *Adapter) IsAvailable(context.Context) bool { return a.rest.HTTP().BaseURL() != "" }

// Execute sends one completion. Zero model, temperature and max tokens fall
// back to the adapter's configuration. Upstream failures keep their
// *httpclient.Error in the chain.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.defaults.Model
	}
	if req.Temperature == 0 {
		req.Temperature = a.defaults.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.defaults.MaxTokens
	}

	payload, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}
	raw, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.ChatPath(), payload)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: %w", a.dialect.Name(), err)
	}
	out, err := a.dialect.ParseResponse(raw.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	return *out, nil
}
