package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ragdash-backend/internal/domain"
)

func TestChunkBulkUpdate(t *testing.T) {
	f := newFixture(t)
	s := NewChunkService(f.db, f.log, f.chunks)
	ctx, tx := f.dbc.Ctx, f.dbc.Tx

	svc := testutil.SeedService(t, ctx, tx, "svc", f.clock.Next())
	src := testutil.SeedSource(t, ctx, tx, svc.ID, "a.csv", types.SourceStatusCompleted, f.clock.Next())
	other := testutil.SeedSource(t, ctx, tx, svc.ID, "b.csv", types.SourceStatusCompleted, f.clock.Next())
	c1 := testutil.SeedChunk(t, ctx, tx, svc.ID, src.ID, 0, "old text")
	c2 := testutil.SeedChunk(t, ctx, tx, svc.ID, src.ID, 1, "untouched")
	foreign := testutil.SeedChunk(t, ctx, tx, svc.ID, other.ID, 0, "elsewhere")

	n, err := s.BulkUpdate(f.dbc, svc.ID, src.ID, []ChunkUpdate{{ID: c1.ID, Content: "new text"}})
	if err != nil || n != 1 {
		t.Fatalf("BulkUpdate: n=%d err=%v", n, err)
	}
	rows, err := s.List(f.dbc, svc.ID, src.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != c1.ID || rows[0].Content != "new text" || rows[1].ID != c2.ID || rows[1].Content != "untouched" {
		t.Fatalf("after update: %q %q", rows[0].Content, rows[1].Content)
	}

	_, err = s.BulkUpdate(f.dbc, svc.ID, src.ID, []ChunkUpdate{
		{ID: c2.ID, Content: "should roll back"},
		{ID: foreign.ID, Content: "wrong source"},
	})
	wantStatus(t, err, http.StatusNotFound)
	rows, _ = s.List(f.dbc, svc.ID, src.ID)
	if rows[1].Content != "untouched" {
		t.Fatalf("partial batch applied: %q", rows[1].Content)
	}

	_, err = s.BulkUpdate(f.dbc, svc.ID, src.ID, []ChunkUpdate{{ID: uuid.Nil, Content: "x"}})
	wantStatus(t, err, http.StatusBadRequest)

	if n, err := s.BulkUpdate(f.dbc, svc.ID, src.ID, nil); err != nil || n != 0 {
		t.Fatalf("empty batch: n=%d err=%v", n, err)
	}
}
