package ragserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// UnavailableError means the request never got an HTTP response.
type UnavailableError struct {
	Op  string
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("rag server %s unavailable at %s: %v", e.Op, e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// StatusError means the server answered with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rag server %s returned %d: %s", e.Op, e.StatusCode, e.Detail())
}

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

// Detail extracts the server's error message, falling back to the raw body.
func (e *StatusError) Detail() string {
	var payload struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil {
		switch d := payload.Detail.(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			if raw, err := json.Marshal(d); err == nil {
				return string(raw)
			}
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512]
	}
	return body
}

func IsUnavailable(err error) bool {
	var u *UnavailableError
	return errors.As(err, &u)
}

func AsStatusError(err error) (*StatusError, bool) {
	var s *StatusError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
