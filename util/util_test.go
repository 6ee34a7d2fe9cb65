package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"25MB", 25 << 20},
		{"512KB", 512 << 10},
		{"2GB", 2 << 30},
		{"1000", 1000},
		{"1000B", 1000},
		{"  10MB  ", 10 << 20},
		{"10mb", 10 << 20},
		{"10 MB", 10 << 20},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, 0); got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSize_Default(t *testing.T) {
	def := int64(5 << 20)
	for _, in := range []string{"", "invalid", "-3MB", "1.5MB"} {
		if got := ParseSize(in, def); got != def {
			t.Errorf("ParseSize(%q) = %d, want default %d", in, got, def)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{25 << 20, "25MB"},
		{1 << 30, "1GB"},
		{1536, "1536B"},
		{2048, "2KB"},
		{0, "0B"},
	}
	for _, tc := range tests {
		if got := FormatSize(tc.n); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input  string
		prefix int
		want   string
	}{
		{"gsk_abcdefghijkl", 4, "gsk_***"},
		{"short", 10, "***"},
		{"exactly4", 8, "***"},
		{"", 4, "***"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := MaskSecret(tc.input, tc.prefix); got != tc.want {
				t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.input, tc.prefix, got, tc.want)
			}
		})
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "grabacion.m4a"); got != "grabacion.m4a" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := Coalesce("nota.webm", "grabacion.m4a"); got != "nota.webm" {
		t.Errorf("expected first value, got %q", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips double quotes", `"gsk_123"`, "gsk_123"},
		{"strips single quotes", `'gsk_123'`, "gsk_123"},
		{"strips quotes and trims", `  "gsk_123 "  `, "gsk_123"},
		{"no quotes", "gsk_123", "gsk_123"},
		{"empty string", "", ""},
		{"mismatched quotes", `"gsk_123'`, `"gsk_123'`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeEnvValue(tc.input); got != tc.want {
				t.Errorf("SanitizeEnvValue(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
