package draft

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/internal/upstream"
	"github.com/kbukum/compapol/llm"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/util"
)

// DefaultTemperature keeps the model close to the worked examples.
const DefaultTemperature = 0.4

var messages = upstream.Messages{
	Upstream:   "Error en redacción (Groq)",
	Unexpected: "Error en redacción (Groq)",
}

// Config selects the model, prompt style and output handling.
type Config struct {
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Style     string `yaml:"style" mapstructure:"style"`
	// Temperature is a pointer so an explicit 0 survives ApplyDefaults.
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature"`
	// ForbiddenPatterns are extra regular expressions; matching output
	// lines are dropped by filtered styles.
	ForbiddenPatterns []string `yaml:"forbidden_patterns" mapstructure:"forbidden_patterns"`
	// CacheSize of 0 disables the draft cache.
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Model = util.Coalesce(c.Model, "llama3-70b-8192")
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
	c.Style = util.Coalesce(c.Style, DefaultStyle)
}

// Validate checks the style name and extra patterns.
func (c *Config) Validate() error {
	if _, ok := LookupStyle(c.Style); !ok {
		return fmt.Errorf("draft.style must be one of %v, got %q", StyleNames(), c.Style)
	}
	if t := c.temperature(); t < 0 || t > 2 {
		return fmt.Errorf("draft.temperature must be between 0 and 2, got %v", t)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("draft.cache_size must not be negative")
	}
	_, err := NewFilter(c.ForbiddenPatterns...)
	return err
}

// ChatModel is the model selection handed to the chat provider.
func (c Config) ChatModel() upstream.ChatModel {
	return upstream.ChatModel{Model: c.Model, Temperature: c.temperature(), MaxTokens: c.MaxTokens}
}

func (c Config) temperature() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// Composer turns a dictation plus context into a drafted HTML body.
type Composer struct {
	cfg    Config
	chat   upstream.Chat
	style  Style
	filter *Filter
	cache  *Cache
	log    *logger.Logger
}

// NewComposer builds a composer. A nil chat means no credential is
// configured; every call then fails with a configuration error.
func NewComposer(cfg Config, chat upstream.Chat, log *logger.Logger) (*Composer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	style, _ := LookupStyle(cfg.Style)
	filter, err := NewFilter(cfg.ForbiddenPatterns...)
	if err != nil {
		return nil, err
	}
	c := &Composer{
		cfg:    cfg,
		chat:   chat,
		style:  style,
		filter: filter,
		log:    log.WithComponent("draft"),
	}
	if cfg.CacheSize > 0 {
		if c.cache, err = NewCache(cfg.CacheSize); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Style returns the active prompt style.
func (c *Composer) Style() Style { return c.style }

// Prompt validates req and builds the prompt document for it.
func (c *Composer) Prompt(req Request) (Document, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return Document{}, err
	}
	doc, err := c.style.Document(req)
	if err != nil {
		return Document{}, apperrors.Internal(err)
	}
	return doc, nil
}

// Compose drafts the comparecencia body for req.
func (c *Composer) Compose(ctx context.Context, req Request) (Response, error) {
	if c.chat == nil {
		return Response{}, apperrors.Configuration(upstream.MsgMissingKey)
	}
	doc, err := c.Prompt(req)
	if err != nil {
		return Response{}, err
	}

	start := time.Now()
	call := func(ctx context.Context) (string, error) {
		resp, err := c.chat.Execute(ctx, llm.CompletionRequest{
			Model:       c.cfg.Model,
			Messages:    doc.Messages(),
			Temperature: c.cfg.temperature(),
			MaxTokens:   c.cfg.MaxTokens,
		})
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	}

	var (
		raw string
		hit bool
	)
	if c.cache != nil {
		key := doc.Fingerprint(c.cfg.Model, strconv.FormatFloat(c.cfg.temperature(), 'f', -1, 64), strconv.Itoa(c.cfg.MaxTokens))
		raw, hit, err = c.cache.Do(ctx, key, call)
	} else {
		raw, err = call(ctx)
	}
	if err != nil {
		return Response{}, upstream.Classify("draft", err, messages)
	}

	html := raw
	if c.style.Filtered {
		html = c.filter.Apply(raw)
	}
	c.log.WithContext(ctx).Info("draft composed", logger.Fields(
		logger.FieldModel, c.cfg.Model,
		"style", c.style.Name,
		"fichas", len(req.Fichas),
		"cached", hit,
		"chars", len([]rune(html)),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return Response{HTML: html}, nil
}
