package llm

import (
	"fmt"
	"sync"
)

// Dialect translates between the neutral completion types and one
// provider's JSON wire format.
type Dialect interface {
	Name() string
	// ChatPath is relative to the adapter's base URL.
	ChatPath() string
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

// dialects is filled by the init functions of dialect packages.
var dialects sync.Map

// RegisterDialect makes d selectable through Config.Dialect.
func RegisterDialect(name string, d Dialect) {
	dialects.Store(name, d)
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (Dialect, error) {
	if d, ok := dialects.Load(name); ok {
		return d.(Dialect), nil
	}
	return nil, fmt.Errorf("llm: no dialect %q registered, is its package imported?", name)
}
