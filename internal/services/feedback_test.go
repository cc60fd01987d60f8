package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ragdash-backend/internal/domain"
)

func TestFeedbackRecord(t *testing.T) {
	f := newFixture(t)
	s := NewFeedbackService(f.log, 4, f.messages, f.feedback)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	other := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "other", f.clock.Next())
	msg := testutil.SeedChatMessage(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "s1", types.RoleAssistant, "a", f.clock.Next())

	empty := ""
	fb, err := s.Record(f.dbc, svc.ID, FeedbackInput{
		ChatMessageID:     msg.ID,
		FeedbackType:      types.FeedbackDislike,
		CorrectionMessage: &empty,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if fb.CorrectionMessage != nil || fb.ExpectedResponse != nil || fb.ServiceID != svc.ID {
		t.Fatalf("Record: %+v", fb)
	}

	_, err = s.Record(f.dbc, svc.ID, FeedbackInput{ChatMessageID: msg.ID})
	wantStatus(t, err, http.StatusBadRequest)
	if err.Error() != "chatMessageId and feedbackType are required" {
		t.Fatalf("message: %v", err)
	}
	_, err = s.Record(f.dbc, svc.ID, FeedbackInput{ChatMessageID: msg.ID, FeedbackType: "love"})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = s.Record(f.dbc, other.ID, FeedbackInput{ChatMessageID: msg.ID, FeedbackType: types.FeedbackLike})
	wantStatus(t, err, http.StatusNotFound)
	_, err = s.Record(f.dbc, svc.ID, FeedbackInput{ChatMessageID: uuid.New(), FeedbackType: types.FeedbackLike})
	wantStatus(t, err, http.StatusNotFound)
}

func TestFeedbackListEnrichesWithPrecedingQuestion(t *testing.T) {
	f := newFixture(t)
	s := NewFeedbackService(f.log, 4, f.messages, f.feedback)
	ctx, tx := f.dbc.Ctx, f.dbc.Tx
	svc := testutil.SeedService(t, ctx, tx, "svc", f.clock.Next())

	testutil.SeedChatMessage(t, ctx, tx, svc.ID, "s1", types.RoleUser, "Hello", f.clock.Next())
	testutil.SeedChatMessage(t, ctx, tx, svc.ID, "s1", types.RoleAssistant, "Hi there", f.clock.Next())
	testutil.SeedChatMessage(t, ctx, tx, svc.ID, "s1", types.RoleUser, "What are your hours?", f.clock.Next())
	answer := testutil.SeedChatMessage(t, ctx, tx, svc.ID, "s1", types.RoleAssistant, "9 to 5", f.clock.Next())
	orphan := testutil.SeedChatMessage(t, ctx, tx, svc.ID, "s2", types.RoleAssistant, "Welcome!", f.clock.Next())

	older := testutil.SeedFeedback(t, ctx, tx, svc.ID, answer.ID, types.FeedbackLike, f.clock.Next())
	newer := testutil.SeedFeedback(t, ctx, tx, svc.ID, orphan.ID, types.FeedbackDislike, f.clock.Next())

	rows, err := s.List(f.dbc, svc.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatalf("order: %s %s", rows[0].ID, rows[1].ID)
	}

	got := rows[1]
	if got.UserMessage == nil || *got.UserMessage != "What are your hours?" {
		t.Fatalf("user_message: %v", got.UserMessage)
	}
	if got.BotResponse == nil || *got.BotResponse != "9 to 5" {
		t.Fatalf("bot_response: %v", got.BotResponse)
	}
	if got.ChatMessage == nil || got.ChatMessage.Role != types.RoleAssistant || got.ChatMessage.SessionID != "s1" {
		t.Fatalf("chat_message: %+v", got.ChatMessage)
	}

	if rows[0].UserMessage != nil {
		t.Fatalf("expected no user message for a session without one, got %q", *rows[0].UserMessage)
	}
	if rows[0].BotResponse == nil || *rows[0].BotResponse != "Welcome!" {
		t.Fatalf("bot_response: %v", rows[0].BotResponse)
	}
}

func TestFeedbackListEmpty(t *testing.T) {
	f := newFixture(t)
	s := NewFeedbackService(f.log, 0, f.messages, f.feedback)
	rows, err := s.List(f.dbc, uuid.New())
	if err != nil || rows == nil || len(rows) != 0 {
		t.Fatalf("List: rows=%v err=%v", rows, err)
	}
}
