package dberr

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "gorm not found", err: gorm.ErrRecordNotFound, want: ErrNotFound},
		{name: "pg unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "idx_sources_file_path"}, want: ErrConflict},
		{name: "pg fk", err: &pgconn.PgError{Code: "23503"}, want: ErrMissingParent},
		{name: "sqlite unique", err: errors.New("UNIQUE constraint failed: sources.file_path"), want: ErrConflict},
		{name: "canceled", err: context.Canceled, want: ErrCanceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Map("op", tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("want %v in chain, got=%v", tc.want, got)
			}
		})
	}
}

func TestMapPassesThroughUnknown(t *testing.T) {
	base := errors.New("connection reset")
	got := Map("list sources", base)
	if !errors.Is(got, base) {
		t.Fatalf("original error lost: %v", got)
	}
	if IsNotFound(got) {
		t.Fatalf("unknown error reported as not found")
	}
	if Map("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}
