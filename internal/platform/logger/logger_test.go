package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"llm_api_key", "sk-live-123",
		"authorization", "Bearer abc",
		"service_id", "svc-1",
		"user_id", "u-1",
	})
	if len(out) != 8 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("llm_api_key not redacted: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("authorization not redacted: %v", out[3])
	}
	if out[5] != "svc-1" {
		t.Fatalf("service_id changed: %v", out[5])
	}
	if s, _ := out[7].(string); len(s) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"":      "debug",
		"info":  "info",
		"WARN":  "warn",
		"error": "error",
		"bogus": "debug",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q): want=%q got=%q", in, want, got)
		}
	}
}
