package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/data/repos/testutil"
)

func assertSingleDefault(t *testing.T, f *fixture, serviceID uuid.UUID, want uuid.UUID) {
	t.Helper()
	rows, err := f.styles.ListByService(f.dbc, serviceID)
	if err != nil {
		t.Fatalf("list styles: %v", err)
	}
	n := 0
	var got uuid.UUID
	for _, s := range rows {
		if s.IsDefault {
			n++
			got = s.ID
		}
	}
	if len(rows) > 0 && n != 1 {
		t.Fatalf("want exactly one default, got %d", n)
	}
	if want != uuid.Nil && got != want {
		t.Fatalf("default: want %s got %s", want, got)
	}
}

func TestStyleCreateFirstIsDefault(t *testing.T) {
	f := newFixture(t)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	s := NewStyleService(f.db, f.log, f.services, f.styles)

	first, err := s.Create(f.dbc, svc.ID, CreateStyleInput{Name: "formal"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !first.IsDefault {
		t.Fatalf("first style should be default")
	}
	second, err := s.Create(f.dbc, svc.ID, CreateStyleInput{Name: "casual", Tone: testutil.PtrString("")})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.IsDefault || second.Tone != nil {
		t.Fatalf("second style: default=%v tone=%v", second.IsDefault, second.Tone)
	}
	assertSingleDefault(t, f, svc.ID, first.ID)

	third, err := s.Create(f.dbc, svc.ID, CreateStyleInput{Name: "terse", IsDefault: true})
	if err != nil {
		t.Fatalf("Create default: %v", err)
	}
	assertSingleDefault(t, f, svc.ID, third.ID)
}

func TestStyleCreateValidation(t *testing.T) {
	f := newFixture(t)
	s := NewStyleService(f.db, f.log, f.services, f.styles)

	_, err := s.Create(f.dbc, uuid.New(), CreateStyleInput{Name: "  "})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = s.Create(f.dbc, uuid.New(), CreateStyleInput{Name: "x"})
	wantStatus(t, err, http.StatusNotFound)
}

func TestStyleUpdateDefaultTransitions(t *testing.T) {
	f := newFixture(t)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	a := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "a", true, f.clock.Next())
	b := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "b", false, f.clock.Next())
	s := NewStyleService(f.db, f.log, f.services, f.styles)

	yes, no := true, false
	got, err := s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: b.ID, IsDefault: &yes})
	if err != nil || !got.IsDefault {
		t.Fatalf("set default: got=%v err=%v", got, err)
	}
	assertSingleDefault(t, f, svc.ID, b.ID)

	_, err = s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: b.ID, IsDefault: &no})
	wantStatus(t, err, http.StatusBadRequest)
	assertSingleDefault(t, f, svc.ID, b.ID)

	// Clearing the flag on a non-default style is a no-op.
	if _, err := s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: a.ID, IsDefault: &no}); err != nil {
		t.Fatalf("unset non-default: %v", err)
	}

	name := "renamed"
	got, err = s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: a.ID, Name: &name})
	if err != nil || got.Name != name || got.IsDefault {
		t.Fatalf("rename: got=%+v err=%v", got, err)
	}

	_, err = s.Update(f.dbc, svc.ID, UpdateStyleInput{})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: uuid.New(), Name: &name})
	wantStatus(t, err, http.StatusNotFound)
}

func TestStyleDeleteDefaultPromotesEarliest(t *testing.T) {
	f := newFixture(t)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	oldest := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "oldest", false, f.clock.Next())
	def := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "default", true, f.clock.Next())
	newest := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "newest", false, f.clock.Next())
	s := NewStyleService(f.db, f.log, f.services, f.styles)

	if err := s.Delete(f.dbc, svc.ID, newest.ID); err != nil {
		t.Fatalf("Delete non-default: %v", err)
	}
	assertSingleDefault(t, f, svc.ID, def.ID)

	if err := s.Delete(f.dbc, svc.ID, def.ID); err != nil {
		t.Fatalf("Delete default: %v", err)
	}
	assertSingleDefault(t, f, svc.ID, oldest.ID)

	if err := s.Delete(f.dbc, svc.ID, oldest.ID); err != nil {
		t.Fatalf("Delete last: %v", err)
	}
	if rows, _ := s.List(f.dbc, svc.ID); len(rows) != 0 {
		t.Fatalf("expected no styles, got %d", len(rows))
	}

	wantStatus(t, s.Delete(f.dbc, svc.ID, oldest.ID), http.StatusNotFound)
	wantStatus(t, s.Delete(f.dbc, svc.ID, uuid.Nil), http.StatusBadRequest)
}

func TestStyleEmptyUpdateRefreshesUpdatedAt(t *testing.T) {
	f := newFixture(t)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	def := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "formal", true, f.clock.Next())
	s := NewStyleService(f.db, f.log, f.services, f.styles)

	got, err := s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: def.ID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.UpdatedAt.After(def.UpdatedAt) || got.Name != def.Name || !got.IsDefault {
		t.Fatalf("id-only update: before=%+v after=%+v", def, got)
	}

	// Re-asserting the current default changes nothing but the timestamp.
	yes := true
	again, err := s.Update(f.dbc, svc.ID, UpdateStyleInput{ID: def.ID, IsDefault: &yes})
	if err != nil {
		t.Fatalf("Update default again: %v", err)
	}
	if again.UpdatedAt.Before(got.UpdatedAt) || !again.IsDefault {
		t.Fatalf("default re-assert: %+v", again)
	}
	assertSingleDefault(t, f, svc.ID, def.ID)
}
