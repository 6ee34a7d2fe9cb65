package server

import (
	"fmt"
	"time"

	"github.com/kbukum/compapol/server/middleware"
	"github.com/kbukum/compapol/util"
)

// Config is the `server` section.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// Timeouts accept Go durations, e.g. "3m".
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// MaxBodySize caps every request body, e.g. "26MB".
	MaxBodySize string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS        middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults listens on :3000 and lets any origin call the API. The write
// timeout outlasts the upstream timeouts so a slow transcription still gets
// its error body out.
func (c *Config) ApplyDefaults() {
	defaultTo(&c.ReadTimeout, time.Minute)
	defaultTo(&c.WriteTimeout, 3*time.Minute)
	defaultTo(&c.IdleTimeout, 2*time.Minute)
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "26MB"
	}

	cors := &c.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID}
	}
}

func defaultTo(d *time.Duration, v time.Duration) {
	if *d == 0 {
		*d = v
	}
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Port)
	}
	for name, d := range map[string]time.Duration{"read": c.ReadTimeout, "write": c.WriteTimeout, "idle": c.IdleTimeout} {
		if d < 0 {
			return fmt.Errorf("server.%s_timeout must not be negative (got %s)", name, d)
		}
	}
	if c.MaxBodySize != "" && util.ParseSize(c.MaxBodySize, -1) <= 0 {
		return fmt.Errorf("server.max_body_size is not a valid size: %q", c.MaxBodySize)
	}
	return nil
}

// BodyLimit is MaxBodySize in bytes.
func (c *Config) BodyLimit() int64 {
	return util.ParseSize(c.MaxBodySize, middleware.DefaultMaxBodySize)
}
