// Package app assembles the compapol service from its configuration.
package app

import (
	"context"
	"fmt"
	"net"

	"github.com/kbukum/compapol/bootstrap"
	"github.com/kbukum/compapol/internal/api"
	"github.com/kbukum/compapol/internal/dictation"
	"github.com/kbukum/compapol/internal/draft"
	"github.com/kbukum/compapol/internal/upstream"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/observability"
	"github.com/kbukum/compapol/server"
	"github.com/kbukum/compapol/storage"
	"github.com/kbukum/compapol/transcription"
	"github.com/kbukum/compapol/util"
)

// MsgMissingKeyNote is printed in the startup summary without a key.
const MsgMissingKeyNote = "GROQ_API_KEY is not set: /api/whisper and /api/police-draft will answer 500"

// Service is the assembled application.
type Service struct {
	*bootstrap.App[*Config]

	server    *server.Server
	telemetry *observability.Component
	spool     *storage.Component
}

// New builds the service. Telemetry and the upload spool start first; the
// providers, routes and HTTP server are wired once the spool exists.
func New(cfg *Config, opts ...bootstrap.Option) (*Service, error) {
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	s := &Service{
		App:       a,
		server:    server.New(cfg.Server, a.Logger),
		telemetry: observability.NewComponent(cfg.Observability, a.Name, a.Version),
		spool:     storage.NewComponent(cfg.Storage, a.Logger),
	}
	if err := a.RegisterComponent(s.telemetry); err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(s.spool); err != nil {
		return nil, err
	}
	a.OnConfigure(s.configure)
	a.OnReady(s.announce)
	return s, nil
}

// Server returns the HTTP server.
func (s *Service) Server() *server.Server { return s.server }

func (s *Service) configure(_ context.Context, a *bootstrap.App[*Config]) error {
	cfg := a.Cfg
	metrics, err := s.telemetry.Metrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	inst := upstream.Instrumentation{Log: a.Logger, Metrics: metrics}

	var (
		chat    upstream.Chat
		whisper transcription.Provider
	)
	if cfg.Groq.HasCredential() {
		if chat, err = upstream.NewChat(cfg.Groq, cfg.Draft.ChatModel(), inst); err != nil {
			return fmt.Errorf("chat provider: %w", err)
		}
		speech := upstream.SpeechModel{Model: cfg.Transcription.Model, Language: cfg.Transcription.Language}
		if whisper, err = upstream.NewTranscriber(cfg.Groq, speech, inst); err != nil {
			return fmt.Errorf("transcription provider: %w", err)
		}
		a.Summary.TrackClient("groq", cfg.Groq.BaseURL, cfg.Groq.Client, "key "+util.MaskSecret(cfg.Groq.APIKey, 4))
	} else {
		a.Logger.Warn("GROQ_API_KEY is not set")
		a.Summary.TrackClient("groq", cfg.Groq.BaseURL, cfg.Groq.Client, "no key")
		a.Summary.Note(MsgMissingKeyNote)
	}

	spool, ok := s.spool.Storage().(dictation.Spool)
	if !ok {
		return fmt.Errorf("storage provider %q cannot spool uploads", cfg.Storage.Provider)
	}
	gateway := dictation.NewGateway(cfg.Transcription, whisper, spool, a.Logger)
	composer, err := draft.NewComposer(cfg.Draft, chat, a.Logger)
	if err != nil {
		return fmt.Errorf("draft composer: %w", err)
	}

	// Engine middleware must be installed before routes are added.
	s.server.ApplyMiddleware(metrics)
	api.NewHandler(gateway, composer, a.Logger).Register(s.server.GinEngine())
	s.server.RegisterDefaultEndpoints(a.Name, a.Components.HealthAll)

	return a.RegisterComponent(server.NewComponent(s.server))
}

func (s *Service) announce(context.Context) error {
	port := fmt.Sprint(s.App.Cfg.Server.Port)
	if _, p, err := net.SplitHostPort(s.server.Addr()); err == nil {
		port = p
	}
	s.Logger.Info("✅ Backend Compapol (Groq) escuchando en :"+port, logger.Fields(
		"style", s.App.Cfg.Draft.Style,
		logger.FieldModel, s.App.Cfg.Draft.Model,
	))
	return nil
}
