package httpclient

import (
	"errors"
	"time"
)

const defaultTimeout = 60 * time.Second

// Config binds a Client to one upstream.
type Config struct {
	// Name labels the upstream in logs and errors.
	Name    string        `yaml:"name" mapstructure:"name"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Auth is not loaded from files; callers build it from the API key.
	Auth    *AuthConfig       `yaml:"-" mapstructure:"-"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults sets a 60s timeout when none is given.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("httpclient: timeout must be positive")
	}
	return nil
}
