package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/compapol/httpclient"
	"github.com/kbukum/compapol/internal/dictation"
	"github.com/kbukum/compapol/internal/draft"
	"github.com/kbukum/compapol/llm"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/provider"
	"github.com/kbukum/compapol/server"
	"github.com/kbukum/compapol/storage/local"
	"github.com/kbukum/compapol/transcription"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: logger.FormatJSON}, "test", io.Discard)
}

type stubWhisper struct {
	text string
	err  error
	got  transcription.Request
}

func (s *stubWhisper) Name() string                     { return "groq-whisper" }
func (s *stubWhisper) IsAvailable(context.Context) bool { return true }
func (s *stubWhisper) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &transcription.Response{Text: s.text}, nil
}

type fixture struct {
	srv     *server.Server
	whisper *stubWhisper
	prompts []llm.CompletionRequest
}

// newFixture builds the full HTTP stack. A nil whisper or a nil reply
// leaves that provider unconfigured.
func newFixture(t *testing.T, whisper *stubWhisper, reply *string, chatErr error) *fixture {
	t.Helper()
	log := quietLogger()
	f := &fixture{whisper: whisper}

	spool, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var tp transcription.Provider
	if whisper != nil {
		tp = whisper
	}
	gateway := dictation.NewGateway(dictation.Config{MaxUpload: "64KB"}, tp, spool, log)

	var chat provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]
	if reply != nil || chatErr != nil {
		chat = provider.Func("groq", func(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
			f.prompts = append(f.prompts, req)
			if chatErr != nil {
				return llm.CompletionResponse{}, chatErr
			}
			return llm.CompletionResponse{Content: *reply}, nil
		})
	}
	composer, err := draft.NewComposer(draft.Config{}, chat, log)
	if err != nil {
		t.Fatal(err)
	}

	f.srv = server.New(server.Config{MaxBodySize: "128KB"}, log)
	NewHandler(gateway, composer, log).Register(f.srv.GinEngine())
	f.srv.ApplyMiddleware(nil)
	f.srv.RegisterDefaultEndpoints("compapol", nil)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rr, req)
	return rr
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("note", "ignored"); err != nil {
		t.Fatal(err)
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, PathWhisper, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("body is not JSON: %q", rr.Body.String())
	}
	return out
}

func TestWhisper(t *testing.T) {
	f := newFixture(t, &stubWhisper{text: "detención de Juan"}, nil, nil)
	rr := f.do(multipartRequest(t, "file", "nota.webm", bytes.Repeat([]byte{1}, 2048)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decode(t, rr)["text"]; got != "detención de Juan" {
		t.Errorf("unexpected text %v", got)
	}
	if f.whisper.got.FileName != "nota.webm" || f.whisper.got.Language != "es" {
		t.Errorf("unexpected provider request %+v", f.whisper.got)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

func TestWhisperErrors(t *testing.T) {
	tests := []struct {
		name     string
		whisper  *stubWhisper
		req      func(t *testing.T) *http.Request
		wantCode int
		wantMsg  string
	}{
		{
			name:    "missing key",
			whisper: nil,
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.m4a", bytes.Repeat([]byte{1}, 2048))
			},
			wantCode: 500, wantMsg: "Falta GROQ_API_KEY en el servidor",
		},
		{
			name:    "no file part",
			whisper: &stubWhisper{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "audio", "a.m4a", bytes.Repeat([]byte{1}, 2048))
			},
			wantCode: 400, wantMsg: "No se recibió audio",
		},
		{
			name:    "not multipart",
			whisper: &stubWhisper{},
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, PathWhisper, strings.NewReader("{}"))
			},
			wantCode: 400, wantMsg: "No se recibió audio",
		},
		{
			name:    "too short",
			whisper: &stubWhisper{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.m4a", []byte("hola"))
			},
			wantCode: 400, wantMsg: "Audio demasiado corto o vacío",
		},
		{
			name:    "above upload limit",
			whisper: &stubWhisper{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.m4a", bytes.Repeat([]byte{1}, 80<<10))
			},
			wantCode: 413,
		},
		{
			name:    "above body limit",
			whisper: &stubWhisper{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.m4a", bytes.Repeat([]byte{1}, 200<<10))
			},
			wantCode: 413,
		},
		{
			name:    "upstream rejection forwarded",
			whisper: &stubWhisper{err: httpclient.ClassifyStatusCode(401, []byte(`{"error":{"message":"Invalid API Key"}}`))},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.m4a", bytes.Repeat([]byte{1}, 2048))
			},
			wantCode: 401, wantMsg: "Invalid API Key",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.whisper, nil, nil)
			rr := f.do(tc.req(t))
			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rr.Code, rr.Body.String())
			}
			body := decode(t, rr)
			msg, _ := body["error"].(string)
			if msg == "" {
				t.Fatalf("expected error body, got %s", rr.Body.String())
			}
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestPoliceDraft(t *testing.T) {
	reply := "<h1>COMPARECENCIA</h1><p>Que los agentes proceden a la detención.</p>"
	f := newFixture(t, nil, &reply, nil)

	body := `{"texto":"detención de Juan","filiaciones":[],"objetos":[],"fichas_resueltas":["Juan Pérez García, nacido en Madrid el 01/01/1990"]}`
	req := httptest.NewRequest(http.MethodPost, PathPoliceDraft, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := f.do(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decode(t, rr)["html"]; got != "<p>Que los agentes proceden a la detención.</p>" {
		t.Errorf("unexpected html %v", got)
	}
	if len(f.prompts) != 1 {
		t.Fatalf("expected one chat call, got %d", len(f.prompts))
	}
	user := f.prompts[0].Messages[len(f.prompts[0].Messages)-1].Content
	if !strings.Contains(user, "«el llamado Juan»") {
		t.Errorf("expected substitution directive in prompt:\n%s", user)
	}
}

func TestPoliceDraftErrors(t *testing.T) {
	reply := "<p>Que A.</p>"
	tests := []struct {
		name     string
		reply    *string
		chatErr  error
		body     string
		wantCode int
		wantMsg  string
	}{
		{"missing key", nil, nil, `{"texto":"x"}`, 500, "Falta GROQ_API_KEY en el servidor"},
		{"empty body", &reply, nil, ``, 400, "texto: es obligatorio"},
		{"malformed json", &reply, nil, `{"texto":`, 400, "JSON no válido"},
		{"bad entry", &reply, nil, `{"texto":"x","objetos":[7]}`, 400, "filiaciones y objetos deben contener objetos o textos"},
		{"texto too long", &reply, nil, `{"texto":"` + strings.Repeat("a", 20001) + `"}`, 400, "texto: debe tener como máximo 20000 caracteres"},
		{"rate limited", nil, httpclient.ClassifyStatusCode(429, []byte(`{"error":{"message":"Rate limit reached"}}`)), `{"texto":"x"}`, 429, "Rate limit reached"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil, tc.reply, tc.chatErr)
			req := httptest.NewRequest(http.MethodPost, PathPoliceDraft, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := f.do(req)
			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rr.Code, rr.Body.String())
			}
			if got, _ := decode(t, rr)["error"].(string); got != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, got)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	rr := f.do(httptest.NewRequest(http.MethodGet, PathWhisper, http.NoBody))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
