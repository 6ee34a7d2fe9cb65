package storage

import (
	"errors"
	"fmt"
	"time"
)

// ProviderLocal keeps files under BasePath. It is the only backend.
const ProviderLocal = "local"

const (
	DefaultBasePath   = "uploads"
	DefaultSweepAfter = time.Hour
)

// Config is the `storage` section: where uploads are spooled while they
// are transcribed.
type Config struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
	// SweepAfter is the age past which files left by an earlier run are
	// removed at startup. Negative disables the sweep.
	SweepAfter time.Duration `mapstructure:"sweep_after" yaml:"sweep_after"`
}

func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.SweepAfter == 0 {
		c.SweepAfter = DefaultSweepAfter
	}
}

func (c *Config) Validate() error {
	if c.Provider != ProviderLocal {
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	if c.BasePath == "" {
		return errors.New("storage: base_path is required")
	}
	return nil
}
