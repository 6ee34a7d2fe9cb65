package app

import (
	"fmt"
	"strings"

	"github.com/kbukum/compapol/config"
	"github.com/kbukum/compapol/internal/dictation"
	"github.com/kbukum/compapol/internal/draft"
	"github.com/kbukum/compapol/internal/upstream"
	"github.com/kbukum/compapol/observability"
	"github.com/kbukum/compapol/server"
	"github.com/kbukum/compapol/storage"
	"github.com/kbukum/compapol/util"
)

// ServiceName is the configuration and logging name of the service.
const ServiceName = "compapol"

// Environment aliases accepted besides the nested variable names.
var EnvAliases = map[string]string{
	"PORT":         "server.port",
	"CORS_ORIGINS": "server.cors.allowed_origins",
}

// Config is the complete service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Groq          upstream.Config      `yaml:"groq" mapstructure:"groq"`
	Transcription dictation.Config     `yaml:"transcription" mapstructure:"transcription"`
	Draft         draft.Config         `yaml:"draft" mapstructure:"draft"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.Name = util.Coalesce(c.Name, ServiceName)
	c.ServiceConfig.ApplyDefaults()
	c.Server.CORS.AllowedOrigins = splitList(c.Server.CORS.AllowedOrigins)
	c.Server.ApplyDefaults()
	c.Groq.APIKey = util.SanitizeEnvValue(c.Groq.APIKey)
	c.Groq.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Draft.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	for _, validate := range []func() error{
		c.ServiceConfig.Validate,
		c.Server.Validate,
		c.Groq.Validate,
		c.Draft.Validate,
		c.Storage.Validate,
		c.Observability.Validate,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	if c.Transcription.MinBytes < 0 {
		return fmt.Errorf("transcription: min_bytes must not be negative")
	}
	if limit := c.Transcription.MaxBytes(); limit > c.Server.BodyLimit() {
		return fmt.Errorf("transcription: max_upload %s exceeds server.max_body_size %s",
			util.FormatSize(limit), util.FormatSize(c.Server.BodyLimit()))
	}
	return nil
}

// splitList accepts both YAML lists and a single comma-separated value,
// as CORS_ORIGINS arrives from the environment.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
