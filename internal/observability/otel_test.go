package observability

import "testing"

func TestParseOTLPHeaders(t *testing.T) {
	got := ParseOTLPHeaders(" api-key = abc ,broken, x=1,=y")
	if len(got) != 2 {
		t.Fatalf("unexpected headers: %v", got)
	}
	if got["api-key"] != "abc" || got["x"] != "1" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if ParseOTLPHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestClampRatio(t *testing.T) {
	if clampRatio(-1) != 0 || clampRatio(2) != 1 || clampRatio(0.25) != 0.25 {
		t.Fatalf("clampRatio out of range")
	}
}
