package httpclient

import "testing"

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		wantNil   bool
		code      ErrorCode
		retryable bool
	}{
		{200, true, 0, false},
		{204, true, 0, false},
		{400, false, ErrCodeRequest, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{413, false, ErrCodeRequest, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{503, false, ErrCodeServer, true},
	}
	for _, tc := range tests {
		e := ClassifyStatusCode(tc.status, nil)
		if tc.wantNil {
			if e != nil {
				t.Errorf("%d: expected nil, got %v", tc.status, e)
			}
			continue
		}
		if e == nil || e.Code != tc.code || e.Retryable != tc.retryable || e.StatusCode != tc.status {
			t.Errorf("%d: unexpected %+v", tc.status, e)
		}
	}
}

func TestProviderMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"openai nested", `{"error":{"message":" Rate limit reached "}}`, "Rate limit reached"},
		{"flat error", `{"error":"bad audio"}`, "bad audio"},
		{"top-level message", `{"message":"nope"}`, "nope"},
		{"empty nested", `{"error":{"type":"x"}}`, ""},
		{"not json", `<html>502</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProviderMessage([]byte(tc.body)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClassifyStatusCode_UsesProviderMessage(t *testing.T) {
	e := ClassifyStatusCode(400, []byte(`{"error":{"message":"file too small"}}`))
	if e.Message != "file too small" {
		t.Errorf("expected provider message, got %q", e.Message)
	}
	e = ClassifyStatusCode(502, []byte("gateway"))
	if e.Message != "HTTP 502" {
		t.Errorf("expected generic message, got %q", e.Message)
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrCodeRateLimit.String() != "rate_limit" || ErrorCode(99).String() != "unknown" {
		t.Error("unexpected code names")
	}
}
