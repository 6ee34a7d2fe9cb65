package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/httpclient"
	"github.com/kbukum/compapol/llm"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/transcription"
)

const (
	upstreamMsg   = "Error en transcripción (Groq)"
	unexpectedMsg = "Error en Whisper (Groq)"
)

var whisperMessages = Messages{Upstream: upstreamMsg, Unexpected: unexpectedMsg}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   apperrors.ErrorCode
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "provider message forwarded",
			err:        httpclient.ClassifyStatusCode(401, []byte(`{"error":{"message":"Invalid API Key"}}`)),
			wantCode:   apperrors.ErrCodeUpstream,
			wantStatus: 401,
			wantMsg:    "Invalid API Key",
		},
		{
			name:       "fallback when body has no message",
			err:        fmt.Errorf("chat: %w", httpclient.ClassifyStatusCode(503, []byte("upstream down"))),
			wantCode:   apperrors.ErrCodeUpstream,
			wantStatus: 503,
			wantMsg:    upstreamMsg,
		},
		{
			name:       "rate limit keeps 429",
			err:        httpclient.ClassifyStatusCode(429, []byte(`{"error":{"message":"Rate limit reached"}}`)),
			wantCode:   apperrors.ErrCodeRateLimited,
			wantStatus: 429,
			wantMsg:    "Rate limit reached",
		},
		{
			name:       "sdk api error",
			err:        fmt.Errorf("goopenai: %w", &openai.APIError{HTTPStatusCode: 400, Message: "model_decommissioned"}),
			wantCode:   apperrors.ErrCodeUpstream,
			wantStatus: 400,
			wantMsg:    "model_decommissioned",
		},
		{
			name:       "sdk request error",
			err:        &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")},
			wantCode:   apperrors.ErrCodeUpstream,
			wantStatus: 502,
			wantMsg:    upstreamMsg,
		},
		{
			name:       "client timeout",
			err:        httpclient.NewTimeoutError(context.DeadlineExceeded),
			wantCode:   apperrors.ErrCodeTimeout,
			wantStatus: 504,
			wantMsg:    unexpectedMsg,
		},
		{
			name:       "net timeout",
			err:        fmt.Errorf("post: %w", timeoutErr{}),
			wantCode:   apperrors.ErrCodeTimeout,
			wantStatus: 504,
			wantMsg:    unexpectedMsg,
		},
		{
			name:       "connection refused",
			err:        httpclient.NewConnectionError(errors.New("dial tcp: connection refused")),
			wantCode:   apperrors.ErrCodeUnexpected,
			wantStatus: 500,
			wantMsg:    unexpectedMsg,
		},
		{
			name:       "malformed response",
			err:        errors.New("openai: decode response: unexpected EOF"),
			wantCode:   apperrors.ErrCodeUnexpected,
			wantStatus: 500,
			wantMsg:    unexpectedMsg,
		},
		{
			name:       "app error passes through",
			err:        apperrors.Configuration("Falta GROQ_API_KEY en el servidor"),
			wantCode:   apperrors.ErrCodeConfiguration,
			wantStatus: 500,
			wantMsg:    "Falta GROQ_API_KEY en el servidor",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify("transcribe", tc.err, whisperMessages)
			if got.Code != tc.wantCode || got.HTTPStatus != tc.wantStatus || got.Message != tc.wantMsg {
				t.Errorf("got %s %d %q, want %s %d %q", got.Code, got.HTTPStatus, got.Message, tc.wantCode, tc.wantStatus, tc.wantMsg)
			}
		})
	}

	if Classify("transcribe", nil, whisperMessages) != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{APIKey: "  gsk_x \n", BaseURL: "https://api.groq.com/openai/v1/"}
	cfg.ApplyDefaults()
	if cfg.APIKey != "gsk_x" || cfg.BaseURL != DefaultBaseURL || cfg.Client != BackendREST {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cfg.Client = "grpc"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
	if (Config{}).HasCredential() {
		t.Error("empty key should not count as a credential")
	}
}

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: logger.FormatJSON}, "test", io.Discard)
}

func chatServer(t *testing.T, gotAuth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"llama3-70b-8192",`+
			`"choices":[{"index":0,"message":{"role":"assistant","content":"<p>Comparecen.</p>"},"finish_reason":"stop"}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewChatBackends(t *testing.T) {
	for _, backend := range []string{BackendREST, BackendSDK} {
		t.Run(backend, func(t *testing.T) {
			var auth string
			srv := chatServer(t, &auth)
			cfg := Config{APIKey: "gsk_test", BaseURL: srv.URL, Client: backend}
			cfg.ApplyDefaults()

			chat, err := NewChat(cfg, ChatModel{Model: "llama3-70b-8192", Temperature: 0.4}, Instrumentation{Log: quietLogger()})
			if err != nil {
				t.Fatalf("NewChat: %v", err)
			}
			resp, err := chat.Execute(context.Background(), llm.CompletionRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hola"}},
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if resp.Content != "<p>Comparecen.</p>" {
				t.Errorf("unexpected content %q", resp.Content)
			}
			if auth != "Bearer gsk_test" {
				t.Errorf("expected bearer auth, got %q", auth)
			}
		})
	}
}

func TestNewTranscriberBackendsForwardStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "a.m4a")
	if err := os.WriteFile(audio, []byte(strings.Repeat("x", 2048)), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, backend := range []string{BackendREST, BackendSDK} {
		t.Run(backend, func(t *testing.T) {
			cfg := Config{APIKey: "bad", BaseURL: srv.URL, Client: backend, Timeout: 5 * time.Second}
			cfg.ApplyDefaults()
			p, err := NewTranscriber(cfg, SpeechModel{Model: "whisper-large-v3", Language: "es"}, Instrumentation{})
			if err != nil {
				t.Fatalf("NewTranscriber: %v", err)
			}
			_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: audio, FileName: "grabacion.m4a"})
			appErr := Classify("transcribe", err, whisperMessages)
			if appErr.HTTPStatus != http.StatusUnauthorized || appErr.Message != "Invalid API Key" {
				t.Errorf("got %d %q", appErr.HTTPStatus, appErr.Message)
			}
		})
	}
}
