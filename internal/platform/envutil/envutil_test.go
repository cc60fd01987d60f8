package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "abc")
	if got := Int("ENVUTIL_INT", 7); got != 7 {
		t.Fatalf("want=7 got=%d", got)
	}
	t.Setenv("ENVUTIL_INT", " 42 ")
	if got := Int("ENVUTIL_INT", 7); got != 42 {
		t.Fatalf("want=42 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "on")
	if !Bool("ENVUTIL_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("ENVUTIL_BOOL", "nope")
	if !Bool("ENVUTIL_BOOL", true) {
		t.Fatalf("expected default for unknown value")
	}
}

func TestSecondsAndList(t *testing.T) {
	t.Setenv("ENVUTIL_SECS", "15")
	if got := Seconds("ENVUTIL_SECS", 0); got != 15*time.Second {
		t.Fatalf("want=15s got=%s", got)
	}
	t.Setenv("ENVUTIL_LIST", "a, ,b,")
	got := List("ENVUTIL_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected list: %v", got)
	}
}
