package storage

import (
	"fmt"

	"github.com/kbukum/compapol/logger"
)

// Factory creates a Storage from cfg.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var factories = make(map[string]Factory)

// RegisterFactory makes a backend available to New. Backend packages call
// it from init.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New creates the backend named by cfg.Provider. The backend package must
// be imported, e.g. _ "github.com/kbukum/compapol/storage/local".
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("storage: provider %q not registered", cfg.Provider)
	}
	log.Info("initializing storage", logger.Fields("provider", cfg.Provider, "base_path", cfg.BasePath))
	return f(cfg, log)
}
