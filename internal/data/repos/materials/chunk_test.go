package materials

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/data/dberr"
	"github.com/yungbote/ragdash-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
)

func TestChunkRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewChunkRepo(db, testutil.Logger(t))
	clock := testutil.NewClock()

	svc := testutil.SeedService(t, ctx, tx, "svc", clock.Next())
	src := testutil.SeedSource(t, ctx, tx, svc.ID, "a.csv", types.SourceStatusCompleted, clock.Next())
	other := testutil.SeedSource(t, ctx, tx, svc.ID, "b.csv", types.SourceStatusCompleted, clock.Next())

	if err := repo.Create(dbc, []*types.Chunk{
		{ServiceID: svc.ID, SourceID: src.ID, ChunkIndex: 2, Content: "two"},
		{ServiceID: svc.ID, SourceID: src.ID, ChunkIndex: 0, Content: "zero"},
		{ServiceID: svc.ID, SourceID: src.ID, ChunkIndex: 1, Content: "one"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(dbc, nil); err != nil {
		t.Fatalf("Create(empty): %v", err)
	}
	foreign := testutil.SeedChunk(t, ctx, tx, svc.ID, other.ID, 0, "elsewhere")

	rows, err := repo.ListBySource(dbc, svc.ID, src.ID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListBySource: err=%v len=%d", err, len(rows))
	}
	for i, c := range rows {
		if c.ChunkIndex != i {
			t.Fatalf("ListBySource order: index %d at position %d", c.ChunkIndex, i)
		}
	}

	if n, err := repo.CountBySource(dbc, src.ID); err != nil || n != 3 {
		t.Fatalf("CountBySource: n=%d err=%v", n, err)
	}
	if n, err := repo.CountByService(dbc, svc.ID); err != nil || n != 4 {
		t.Fatalf("CountByService: n=%d err=%v", n, err)
	}

	if err := repo.UpdateContent(dbc, svc.ID, src.ID, rows[0].ID, "ZERO"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if err := repo.UpdateContent(dbc, svc.ID, src.ID, foreign.ID, "nope"); !errors.Is(err, dberr.ErrNotFound) {
		t.Fatalf("UpdateContent(other source): want ErrNotFound got %v", err)
	}
	if err := repo.UpdateContent(dbc, svc.ID, src.ID, uuid.New(), "nope"); !errors.Is(err, dberr.ErrNotFound) {
		t.Fatalf("UpdateContent(missing): want ErrNotFound got %v", err)
	}
	rows, _ = repo.ListBySource(dbc, svc.ID, src.ID)
	if rows[0].Content != "ZERO" {
		t.Fatalf("UpdateContent not applied: %q", rows[0].Content)
	}

	if n, err := repo.DeleteBySource(dbc, src.ID); err != nil || n != 3 {
		t.Fatalf("DeleteBySource: n=%d err=%v", n, err)
	}
	if n, err := repo.DeleteByService(dbc, svc.ID); err != nil || n != 1 {
		t.Fatalf("DeleteByService: n=%d err=%v", n, err)
	}
}
