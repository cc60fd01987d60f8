package events

import (
	"context"
	"time"
)

const (
	SourceCreated         = "source.created"
	SourceIngestionFailed = "source.ingestion_failed"
	SourceStatusChanged   = "source.status_changed"
	SourceDeleted         = "source.deleted"
	ServiceDeleted        = "service.deleted"
)

// Event is a source lifecycle notification for dashboard listeners.
type Event struct {
	Type      string    `json:"type"`
	ServiceID string    `json:"service_id"`
	SourceID  string    `json:"source_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type noop struct{}

// Noop returns a Publisher that drops every event.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) error { return nil }
func (noop) Close() error                         { return nil }
