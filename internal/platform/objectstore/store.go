package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

var (
	// ErrObjectExists is returned by Put when the key is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrObjectNotFound is returned by Delete when the key does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

// Store is the blob store holding uploaded source files. Keys are
// bucket-relative paths such as "{service_id}/{source_id}/{filename}".
type Store interface {
	// Put writes r under key and never overwrites an existing object.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	// DeletePrefix removes every object under prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Bucket() string
}

// New validates cfg and builds the Store for its mode.
func New(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	switch cfg.Mode {
	case ModeGCS, ModeGCSEmulator:
		return newGCSStore(ctx, log, cfg)
	case ModeMinIO:
		return newMinIOStore(ctx, log, cfg)
	default:
		return nil, &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}

// ContentTypeForKey maps the upload extensions to their MIME types.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".csv"):
		return "text/csv"
	case strings.HasSuffix(s, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasSuffix(s, ".xls"):
		return "application/vnd.ms-excel"
	default:
		return "application/octet-stream"
	}
}

func deleteKeys(ctx context.Context, log *logger.Logger, s Store, prefix string) (int, error) {
	keys, err := s.ListKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	deleted := 0
	var firstErr error
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil && !errors.Is(err, ErrObjectNotFound) {
			log.Warn("Delete object under prefix failed", "prefix", prefix, "key", k, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}
	return deleted, firstErr
}
