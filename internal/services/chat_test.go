package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/apierr"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

func TestChatSendForwardsRequest(t *testing.T) {
	f := newFixture(t)
	f.rag.chatResp = &ragserver.ChatResponse{Response: "We open at 9.", SessionID: "s1", ChunksUsed: []ragserver.ChunkInfo{}}
	s := NewChatService(f.log, ChatServiceConfig{}, f.rag, f.messages, f.styles)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())

	resp, err := s.Send(f.dbc, svc.ID, ChatInput{
		Message:             "What are your hours?",
		SessionID:           "s1",
		ConversationHistory: []ragserver.HistoryMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Response != "We open at 9." {
		t.Fatalf("response: %+v", resp)
	}
	req := f.rag.chats[0]
	if req.ServiceID != svc.ID.String() || req.Message != "What are your hours?" || req.SessionID != "s1" || len(req.ConversationHistory) != 1 {
		t.Fatalf("forwarded: %+v", req)
	}
	if req.StyleGuidelines != "" {
		t.Fatalf("unexpected style guidelines: %q", req.StyleGuidelines)
	}
}

func TestChatSendWithStyle(t *testing.T) {
	f := newFixture(t)
	f.rag.chatResp = &ragserver.ChatResponse{Response: "ok"}
	s := NewChatService(f.log, ChatServiceConfig{}, f.rag, f.messages, f.styles)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	style := testutil.SeedStyle(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "friendly", true, f.clock.Next())

	if _, err := s.Send(f.dbc, svc.ID, ChatInput{Message: "hi", StyleID: &style.ID}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := f.rag.chats[0].StyleGuidelines; got != "Tone: professional" {
		t.Fatalf("style guidelines: %q", got)
	}

	missing := uuid.New()
	_, err := s.Send(f.dbc, svc.ID, ChatInput{Message: "hi", StyleID: &missing})
	wantStatus(t, err, http.StatusNotFound)
}

func TestChatSendFailures(t *testing.T) {
	cases := []struct {
		name   string
		msg    string
		err    error
		status int
	}{
		{"empty message", "  ", nil, http.StatusBadRequest},
		{"unreachable", "hi", &ragserver.UnavailableError{Op: "chat", Err: errors.New("refused")}, http.StatusServiceUnavailable},
		{"collaborator 500", "hi", &ragserver.StatusError{Op: "chat", StatusCode: 500, Body: "boom"}, http.StatusInternalServerError},
		{"collaborator 422", "hi", &ragserver.StatusError{Op: "chat", StatusCode: 422, Body: "{}"}, http.StatusUnprocessableEntity},
		{"decode failure", "hi", errors.New("decode chat response"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.rag.chatErr = tc.err
			s := NewChatService(f.log, ChatServiceConfig{UnavailableHint: "start it"}, f.rag, f.messages, f.styles)
			_, err := s.Send(f.dbc, uuid.New(), ChatInput{Message: tc.msg})
			wantStatus(t, err, tc.status)

			switch tc.status {
			case http.StatusBadRequest:
				if err.Error() != MsgMessageRequired {
					t.Fatalf("message: %v", err)
				}
			case http.StatusServiceUnavailable:
				ae, _ := apierr.As(err)
				if err.Error() != MsgChatUnavailable || ae.Details != "start it" || !errors.Is(err, ErrCollaboratorUnavailable) {
					t.Fatalf("unavailable: %v details=%q", err, ae.Details)
				}
			default:
				if err.Error() != MsgChatFailed {
					t.Fatalf("message: %v", err)
				}
			}
		})
	}
}

func TestChatHistory(t *testing.T) {
	f := newFixture(t)
	s := NewChatService(f.log, ChatServiceConfig{}, f.rag, f.messages, f.styles)
	svc := testutil.SeedService(t, f.dbc.Ctx, f.dbc.Tx, "svc", f.clock.Next())
	q := testutil.SeedChatMessage(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "s1", types.RoleUser, "q", f.clock.Next())
	testutil.SeedChatMessage(t, f.dbc.Ctx, f.dbc.Tx, svc.ID, "s1", types.RoleAssistant, "a", f.clock.Next())

	rows, err := s.History(f.dbc, svc.ID, "s1")
	if err != nil || len(rows) != 2 || rows[0].ID != q.ID {
		t.Fatalf("History: err=%v rows=%v", err, rows)
	}
	_, err = s.History(f.dbc, svc.ID, "")
	wantStatus(t, err, http.StatusBadRequest)
}
