package dictation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/internal/upstream"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/storage"
	"github.com/kbukum/compapol/transcription"
	"github.com/kbukum/compapol/util"
)

// Caller-facing messages.
const (
	MsgNoAudio  = "No se recibió audio"
	MsgTooShort = "Audio demasiado corto o vacío"
)

var messages = upstream.Messages{
	Upstream:   "Error en transcripción (Groq)",
	Unexpected: "Error en Whisper (Groq)",
}

// Defaults applied to uploads that do not name themselves.
const (
	DefaultFileName    = "grabacion.m4a"
	DefaultContentType = "audio/m4a"
)

// Config bounds accepted uploads.
type Config struct {
	Model    string `yaml:"model" mapstructure:"model"`
	Language string `yaml:"language" mapstructure:"language"`
	// MinBytes rejects near-empty recordings.
	MinBytes int64 `yaml:"min_bytes" mapstructure:"min_bytes"`
	// MaxUpload is a size such as "25MB".
	MaxUpload string `yaml:"max_upload" mapstructure:"max_upload"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Model = util.Coalesce(c.Model, "whisper-large-v3")
	c.Language = util.Coalesce(c.Language, "es")
	if c.MinBytes == 0 {
		c.MinBytes = 1000
	}
	c.MaxUpload = util.Coalesce(c.MaxUpload, "25MB")
}

// MaxBytes returns MaxUpload in bytes.
func (c *Config) MaxBytes() int64 { return util.ParseSize(c.MaxUpload, 25<<20) }

// Upload is one received audio file. A nil Body means no file was sent.
type Upload struct {
	Body        io.Reader
	FileName    string
	ContentType string
	// Size is the declared size, or -1 when unknown.
	Size int64
}

// Result is the transcription returned to the client.
type Result struct {
	Text string `json:"text"`
}

// Spool is where uploads wait for the provider call.
type Spool interface {
	storage.Storage
	storage.Locator
}

// Gateway forwards uploaded audio to the transcription provider.
type Gateway struct {
	cfg      Config
	provider transcription.Provider
	spool    Spool
	log      *logger.Logger
}

// NewGateway builds a gateway. A nil provider means no credential is
// configured; every call then fails with a configuration error.
func NewGateway(cfg Config, p transcription.Provider, spool Spool, log *logger.Logger) *Gateway {
	cfg.ApplyDefaults()
	return &Gateway{cfg: cfg, provider: p, spool: spool, log: log.WithComponent("dictation")}
}

// Transcribe validates the upload, spools it, calls the provider and
// always removes the spooled file afterwards.
func (g *Gateway) Transcribe(ctx context.Context, up Upload) (Result, error) {
	if g.provider == nil {
		return Result{}, apperrors.Configuration(upstream.MsgMissingKey)
	}
	if up.Body == nil {
		return Result{}, apperrors.MissingField("file", MsgNoAudio)
	}
	limit := g.cfg.MaxBytes()
	if up.Size > limit {
		return Result{}, apperrors.PayloadTooLarge(limit)
	}

	name := spoolName(up.FileName)
	n, err := g.spool.Upload(ctx, name, io.LimitReader(up.Body, limit+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Result{}, apperrors.PayloadTooLarge(tooLarge.Limit)
		}
		return Result{}, apperrors.Unexpected(fmt.Errorf("spool upload: %w", err), messages.Unexpected)
	}
	defer g.release(ctx, name)

	log := g.log.WithContext(ctx)
	switch {
	case n > limit:
		return Result{}, apperrors.PayloadTooLarge(limit)
	case n < g.cfg.MinBytes:
		log.Info("audio rejected as too short", logger.Fields(logger.FieldAudioBytes, n))
		return Result{}, apperrors.InvalidInput("file", MsgTooShort).WithDetail("bytes", n)
	}

	path, err := g.spool.Path(name)
	if err != nil {
		return Result{}, apperrors.Unexpected(err, messages.Unexpected)
	}
	resp, err := g.provider.Transcribe(ctx, transcription.Request{
		AudioPath:   path,
		FileName:    util.Coalesce(strings.TrimSpace(up.FileName), DefaultFileName),
		ContentType: util.Coalesce(strings.TrimSpace(up.ContentType), DefaultContentType),
		Language:    g.cfg.Language,
		Model:       g.cfg.Model,
		Format:      transcription.FormatJSON,
	})
	if err != nil {
		return Result{}, upstream.Classify("transcribe", err, messages)
	}
	if resp == nil {
		return Result{}, nil
	}

	log.Info("audio transcribed", logger.Fields(
		logger.FieldAudioBytes, n,
		logger.FieldModel, g.cfg.Model,
		"chars", len([]rune(resp.Text)),
	))
	return Result{Text: resp.Text}, nil
}

// release deletes the spooled file. Failures are logged only.
func (g *Gateway) release(ctx context.Context, name string) {
	if err := g.spool.Delete(context.WithoutCancel(ctx), name); err != nil {
		g.log.WithContext(ctx).Warn("failed to remove spooled audio", logger.Fields(
			logger.FieldFileName, name,
			logger.FieldError, err.Error(),
		))
	}
}

// spoolName returns a random name with the client's extension.
func spoolName(clientName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(clientName)))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.NewString() + ext
}
