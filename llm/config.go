package llm

import (
	"time"

	"github.com/kbukum/compapol/httpclient"
)

// Config configures an Adapter.
type Config struct {
	// Name identifies the adapter in logs. Defaults to "<dialect>-llm".
	Name string `yaml:"name" mapstructure:"name"`
	// Dialect selects a registered wire format, e.g. "openai".
	Dialect     string                 `yaml:"dialect" mapstructure:"dialect"`
	BaseURL     string                 `yaml:"base_url" mapstructure:"base_url"`
	Model       string                 `yaml:"model" mapstructure:"model"`
	Temperature float64                `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int                    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout     time.Duration          `yaml:"timeout" mapstructure:"timeout"`
	Auth        *httpclient.AuthConfig `yaml:"-" mapstructure:"-"`
	Headers     map[string]string      `yaml:"headers" mapstructure:"headers"`
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Name == "" && c.Dialect != "" {
		c.Name = c.Dialect + "-llm"
	}
}
