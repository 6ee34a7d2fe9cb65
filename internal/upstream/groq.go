package upstream

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/compapol/httpclient"
	"github.com/kbukum/compapol/llm"
	"github.com/kbukum/compapol/llm/goopenai"
	_ "github.com/kbukum/compapol/llm/openai" // registers the openai dialect
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/observability"
	"github.com/kbukum/compapol/provider"
	"github.com/kbukum/compapol/transcription"
	transgoopenai "github.com/kbukum/compapol/transcription/goopenai"
	"github.com/kbukum/compapol/transcription/whisper"
)

// Client backends.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// DefaultBaseURL is Groq's OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Config is the shared Groq connection setting.
type Config struct {
	APIKey  string        `yaml:"-" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Client  string        `yaml:"client" mapstructure:"client"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Client == "" {
		c.Client = BackendREST
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// Validate rejects unknown backends. A missing key is not a config error:
// the endpoints report it per request.
func (c *Config) Validate() error {
	switch c.Client {
	case BackendREST, BackendSDK:
	default:
		return fmt.Errorf("groq.client must be %q or %q (got: %q)", BackendREST, BackendSDK, c.Client)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("groq.timeout must be non-negative (got: %s)", c.Timeout)
	}
	return nil
}

// HasCredential reports whether an API key is configured.
func (c Config) HasCredential() bool { return c.APIKey != "" }

// Instrumentation wraps every provider call. Nil fields are skipped.
type Instrumentation struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
}

func chain[I, O any](inst Instrumentation, operation string) provider.Middleware[I, O] {
	mws := []provider.Middleware[I, O]{provider.WithTracing[I, O](operation)}
	if inst.Log != nil {
		mws = append(mws, provider.WithLogging[I, O](inst.Log))
	}
	if inst.Metrics != nil {
		mws = append(mws, provider.WithMetrics[I, O](inst.Metrics, operation))
	}
	return provider.Chain(mws...)
}

// ChatModel selects the chat-completion model and sampling.
type ChatModel struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Chat is the instrumented chat-completion provider.
type Chat = provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]

// NewChat builds the chat-completion provider for cfg.Client.
func NewChat(cfg Config, m ChatModel, inst Instrumentation) (Chat, error) {
	var base Chat
	switch cfg.Client {
	case BackendSDK:
		base = goopenai.New(goopenai.Config{
			Name:        "groq-chat",
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       m.Model,
			Temperature: m.Temperature,
			MaxTokens:   m.MaxTokens,
			Timeout:     cfg.Timeout,
		})
	default:
		adapter, err := llm.New(llm.Config{
			Name:        "groq-chat",
			Dialect:     "openai",
			BaseURL:     cfg.BaseURL,
			Model:       m.Model,
			Temperature: m.Temperature,
			MaxTokens:   m.MaxTokens,
			Timeout:     cfg.Timeout,
			Auth:        httpclient.BearerAuth(cfg.APIKey),
		})
		if err != nil {
			return nil, fmt.Errorf("groq chat: %w", err)
		}
		base = adapter
	}
	return chain[llm.CompletionRequest, llm.CompletionResponse](inst, "chat")(base), nil
}

// SpeechModel selects the transcription model and language.
type SpeechModel struct {
	Model    string
	Language string
}

// NewTranscriber builds the transcription provider for cfg.Client.
func NewTranscriber(cfg Config, m SpeechModel, inst Instrumentation) (transcription.Provider, error) {
	var base transcription.Provider
	switch cfg.Client {
	case BackendSDK:
		base = transgoopenai.NewProvider(transgoopenai.Config{
			Name:     "groq-whisper",
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    m.Model,
			Language: m.Language,
			Timeout:  cfg.Timeout,
		})
	default:
		p, err := whisper.NewProvider(whisper.Config{
			Name:     "groq-whisper",
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.APIKey,
			Model:    m.Model,
			Language: m.Language,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("groq transcription: %w", err)
		}
		base = p
	}
	wrapped := chain[transcription.Request, *transcription.Response](inst, "transcribe")(transcription.AsRequestResponse(base))
	return transcription.FromRequestResponse(wrapped), nil
}
