package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/ragdash-backend/internal/data/dberr"
	"github.com/yungbote/ragdash-backend/internal/platform/apierr"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrNotFound                = errors.New("not found")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrCollaborator            = errors.New("collaborator failed")
)

// classified keeps the user-facing message while matching its sentinel.
type classified struct {
	kind error
	msg  string
}

func (e *classified) Error() string { return e.msg }
func (e *classified) Unwrap() error { return e.kind }

func invalid(code, msg string) error {
	return apierr.New(http.StatusBadRequest, code, &classified{kind: ErrValidation, msg: msg})
}

func notFound(code, msg string) error {
	return apierr.New(http.StatusNotFound, code, &classified{kind: ErrNotFound, msg: msg})
}

func unavailable(code, msg, details string) error {
	return apierr.New(http.StatusServiceUnavailable, code, &classified{kind: ErrCollaboratorUnavailable, msg: msg}).
		WithDetails(details)
}

// collaboratorFailed relays the collaborator's status when it is a client or
// server error and answers 502 otherwise.
func collaboratorFailed(status int, code, msg string) error {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	return apierr.New(status, code, &classified{kind: ErrCollaborator, msg: msg})
}

func internal(op string, err error) error {
	return apierr.New(http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
}

// fromRepo turns a repository failure into a 404 for missing rows and a 500
// for everything else.
func fromRepo(op string, err error, code, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	if dberr.IsNotFound(err) {
		return notFound(code, msg)
	}
	return internal(op, err)
}

const (
	msgServiceNotFound = "Service not found"
	msgSourceNotFound  = "Source not found"
	msgStyleNotFound   = "Style not found"
	msgChunkNotFound   = "Chunk not found"
	msgMessageNotFound = "Chat message not found"
)
