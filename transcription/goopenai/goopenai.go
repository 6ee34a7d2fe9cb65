// Package goopenai implements transcription.Provider with go-openai's
// CreateTranscription, pointed at any OpenAI-compatible base URL.
package goopenai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/compapol/transcription"
)

// Config configures the SDK-backed provider.
type Config struct {
	Name     string
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Timeout  time.Duration
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg Config
	api *openai.Client
}

// NewProvider builds a provider. An empty BaseURL keeps the SDK default.
func NewProvider(cfg Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "goopenai-whisper"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-large-v3"
	}
	sdkCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		sdkCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		sdkCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Provider{cfg: cfg, api: openai.NewClientWithConfig(sdkCfg)}
}

func (p *Provider) Name() string                     { return p.cfg.Name }
func (p *Provider) IsAvailable(context.Context) bool { return p.api != nil }

// Transcribe streams the spooled file through the SDK.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("goopenai: open audio: %w", err)
	}
	defer f.Close()

	fileName := req.FileName
	if fileName == "" {
		fileName = filepath.Base(req.AudioPath)
	}
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}
	format := openai.AudioResponseFormatJSON
	switch req.Format {
	case transcription.FormatText:
		format = openai.AudioResponseFormatText
	case transcription.FormatVerboseJSON:
		format = openai.AudioResponseFormatVerboseJSON
	}

	resp, err := p.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: fileName,
		Reader:   f,
		Language: lang,
		Format:   format,
	})
	if err != nil {
		return nil, fmt.Errorf("goopenai: transcription: %w", err)
	}

	out := &transcription.Response{Text: resp.Text, Language: resp.Language, Duration: resp.Duration}
	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return out, nil
}
