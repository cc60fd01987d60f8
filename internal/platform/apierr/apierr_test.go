package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOfWrapped(t *testing.T) {
	base := NotFound("service_not_found", "Service not found")
	wrapped := fmt.Errorf("get service: %w", base)
	if got := StatusOf(wrapped); got != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, got)
	}
	if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", got)
	}
}

func TestWithDetailsCopies(t *testing.T) {
	base := New(http.StatusServiceUnavailable, "unavailable", errors.New("down"))
	withHint := base.WithDetails("start the server")
	if base.Details != "" {
		t.Fatalf("original mutated: %q", base.Details)
	}
	if withHint.Details != "start the server" || withHint.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected copy: %+v", withHint)
	}
	if withHint.Error() != "down" {
		t.Fatalf("message: %q", withHint.Error())
	}
}
