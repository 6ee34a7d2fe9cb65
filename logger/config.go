package logger

import (
	"cmp"
	"fmt"
	"slices"
)

// Config is the `logging` section.
type Config struct {
	Level string `yaml:"level" mapstructure:"level"`
	// Format is json, console or pretty.
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stdout, stderr or a file path.
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	formats = []string{FormatJSON, FormatConsole, "pretty"}
)

// ApplyDefaults logs info to stdout on the console. Timestamps are always on.
func (c *Config) ApplyDefaults() {
	c.Level = cmp.Or(c.Level, "info")
	c.Format = cmp.Or(c.Format, FormatConsole)
	c.Output = cmp.Or(c.Output, "stdout")
	c.Timestamp = true
}

func (c *Config) Validate() error {
	if !slices.Contains(levels, c.Level) {
		return fmt.Errorf("logging.level %q is not one of %v", c.Level, levels)
	}
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("logging.format %q is not one of %v", c.Format, formats)
	}
	return nil
}
