// Package whisper calls an OpenAI-compatible /audio/transcriptions endpoint
// (Groq, OpenAI, or a local whisper server speaking the same API).
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/compapol/httpclient"
	"github.com/kbukum/compapol/transcription"
)

// ProviderName is the default provider name.
const ProviderName = "whisper"

const (
	defaultModel   = "whisper-large-v3"
	defaultTimeout = 120 * time.Second
	transcribePath = "/audio/transcriptions"
)

// Config configures the provider.
type Config struct {
	Name     string        `yaml:"name" mapstructure:"name"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string        `yaml:"-" mapstructure:"-"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Name == "" {
		cfg.Name = ProviderName
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	hc := httpclient.Config{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if cfg.APIKey != "" {
		hc.Auth = httpclient.BearerAuth(cfg.APIKey)
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Name returns the configured name.
func (p *Provider) Name() string { return p.cfg.Name }

// IsAvailable reports whether a base URL is configured.
func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.BaseURL != "" }

// Transcribe uploads the audio file as multipart form data. A non-2xx
// status returns the *httpclient.Error untouched.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: open audio: %w", err)
	}
	defer f.Close()

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}
	format := req.Format
	if format == "" {
		format = transcription.FormatJSON
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = filepath.Base(req.AudioPath)
	}

	fields := map[string]string{"model": model, "response_format": format}
	if lang != "" {
		fields["language"] = lang
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   transcribePath,
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    fileName,
				ContentType: req.ContentType,
				Reader:      f,
			}},
		},
	})
	if err != nil {
		return nil, err
	}
	return parseResponse(format, resp.Body)
}

type apiResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func parseResponse(format string, body []byte) (*transcription.Response, error) {
	if format == transcription.FormatText {
		return &transcription.Response{Text: strings.TrimSpace(string(body))}, nil
	}
	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("whisper: decode response: %w", err)
	}
	out := &transcription.Response{Text: raw.Text, Language: raw.Language, Duration: raw.Duration}
	for _, s := range raw.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	if out.Duration == 0 && len(out.Segments) > 0 {
		out.Duration = out.Segments[len(out.Segments)-1].End
	}
	return out, nil
}
