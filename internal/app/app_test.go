package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/kbukum/compapol/bootstrap"
	"github.com/kbukum/compapol/config"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/server"
	"github.com/kbukum/compapol/storage"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: logger.FormatJSON}, "test", io.Discard)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *Config {
	return &Config{
		ServiceConfig: config.ServiceConfig{Environment: "production"},
		Server:        server.Config{Host: "127.0.0.1", Port: freePort(t)},
		Storage:       storage.Config{BasePath: t.TempDir()},
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Groq.APIKey = ` "gsk_abc" `
	cfg.Server.CORS.AllowedOrigins = []string{"https://a.example, https://b.example"}
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("expected name %q, got %q", ServiceName, cfg.Name)
	}
	if cfg.Groq.APIKey != "gsk_abc" {
		t.Errorf("expected sanitized key, got %q", cfg.Groq.APIKey)
	}
	if got := cfg.Server.CORS.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("expected split origins, got %v", got)
	}
	if cfg.Draft.Style != "v2" || cfg.Draft.Model != "llama3-70b-8192" {
		t.Errorf("unexpected draft defaults %+v", cfg.Draft)
	}
	if cfg.Transcription.Model != "whisper-large-v3" || cfg.Transcription.Language != "es" {
		t.Errorf("unexpected transcription defaults %+v", cfg.Transcription)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown client", func(c *Config) { c.Groq.Client = "grpc" }, "groq.client"},
		{"unknown style", func(c *Config) { c.Draft.Style = "v7" }, "draft.style"},
		{"upload above body limit", func(c *Config) {
			c.Transcription.MaxUpload = "30MB"
			c.Server.MaxBodySize = "26MB"
		}, "max_upload"},
		{"bad storage", func(c *Config) { c.Storage.Provider = "s3" }, "unsupported provider"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			tc.mutate(cfg)
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadWithAliases(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORT", "4100")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("GROQ_API_KEY", "gsk_from_env")

	var cfg Config
	opts := []config.LoaderOption{config.WithConfigFile(dir + "/none.yml"), config.WithEnvFile(dir + "/none.env")}
	for env, key := range EnvAliases {
		opts = append(opts, config.WithAlias(env, key))
	}
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Server.Port != 4100 {
		t.Errorf("expected PORT alias, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 2 {
		t.Errorf("expected two origins, got %v", cfg.Server.CORS.AllowedOrigins)
	}
	if !cfg.Groq.HasCredential() {
		t.Error("expected key from GROQ_API_KEY")
	}
}

func TestLoadKeepsZeroTemperature(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yml"
	if err := os.WriteFile(path, []byte("draft:\n  temperature: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	if err := config.LoadConfig(ServiceName, &cfg, config.WithConfigFile(path), config.WithEnvFile(dir+"/none.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()
	if got := cfg.Draft.ChatModel().Temperature; got != 0 {
		t.Errorf("expected configured temperature 0, got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero temperature should validate: %v", err)
	}
}

func startService(t *testing.T, cfg *Config, summary io.Writer) *Service {
	t.Helper()
	svc, err := New(cfg, bootstrap.WithLogger(quietLogger()), bootstrap.WithSummaryOutput(summary))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Shutdown() })
	return svc
}

func TestServiceWithoutKey(t *testing.T) {
	var summary bytes.Buffer
	svc := startService(t, testConfig(t), &summary)
	base := "http://" + svc.Server().Addr()

	var audio bytes.Buffer
	mw := multipart.NewWriter(&audio)
	fw, err := mw.CreateFormFile("file", "nota.m4a")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(bytes.Repeat([]byte{1}, 2048))
	_ = mw.Close()

	requests := []struct {
		path, contentType string
		body              io.Reader
	}{
		{"/api/police-draft", "application/json", strings.NewReader(`{"texto":"x"}`)},
		{"/api/whisper", mw.FormDataContentType(), &audio},
	}
	for _, r := range requests {
		resp, err := http.Post(base+r.path, r.contentType, r.body)
		if err != nil {
			t.Fatal(err)
		}
		var body map[string]string
		decodeErr := json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", r.path, resp.StatusCode)
		}
		if decodeErr != nil {
			t.Fatalf("%s: %v", r.path, decodeErr)
		}
		if body["error"] != "Falta GROQ_API_KEY en el servidor" {
			t.Errorf("%s: unexpected error body %v", r.path, body)
		}
	}

	health, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("expected healthz 200, got %d", health.StatusCode)
	}

	for _, want := range []string{"/api/whisper", "/api/police-draft", MsgMissingKeyNote} {
		if !strings.Contains(summary.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, summary.String())
		}
	}
}

func TestServiceWithKeyTracksClient(t *testing.T) {
	cfg := testConfig(t)
	cfg.Groq.APIKey = "gsk_secretvalue"
	cfg.Groq.BaseURL = "http://127.0.0.1:1"

	var summary bytes.Buffer
	startService(t, cfg, &summary)

	out := summary.String()
	if strings.Contains(out, "gsk_secretvalue") {
		t.Error("summary must not print the API key")
	}
	if !strings.Contains(out, "groq → http://127.0.0.1:1 [rest]") {
		t.Errorf("expected groq client in summary:\n%s", out)
	}
}
