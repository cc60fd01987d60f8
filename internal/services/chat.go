package services

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

const (
	MsgChatUnavailable = "Chat server is not available. Please ensure the RAG server is running."
	MsgChatFailed      = "Failed to get response from chat server"
	MsgMessageRequired = "Message is required"
)

type ChatInput struct {
	Message             string
	SessionID           string
	ConversationHistory []ragserver.HistoryMessage
	StyleID             *uuid.UUID
}

type ChatService interface {
	// Send forwards one user turn to the chat server. Persisting the turn is
	// the chat server's job.
	Send(dbc dbctx.Context, serviceID uuid.UUID, in ChatInput) (*ragserver.ChatResponse, error)
	History(dbc dbctx.Context, serviceID uuid.UUID, sessionID string) ([]*types.ChatMessage, error)
}

type ChatServiceConfig struct {
	// UnavailableHint is returned as details on a 503.
	UnavailableHint string
}

type chatService struct {
	log      *logger.Logger
	cfg      ChatServiceConfig
	rag      ragserver.Client
	messages repos.ChatMessageRepo
	styles   repos.WritingStyleRepo
}

func NewChatService(
	baseLog *logger.Logger,
	cfg ChatServiceConfig,
	rag ragserver.Client,
	messages repos.ChatMessageRepo,
	styles repos.WritingStyleRepo,
) ChatService {
	if strings.TrimSpace(cfg.UnavailableHint) == "" {
		cfg.UnavailableHint = "Start the RAG server and check RAG_SERVER_URL"
	}
	return &chatService{
		log:      baseLog.With("service", "ChatService"),
		cfg:      cfg,
		rag:      rag,
		messages: messages,
		styles:   styles,
	}
}

func (s *chatService) Send(dbc dbctx.Context, serviceID uuid.UUID, in ChatInput) (*ragserver.ChatResponse, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, invalid("message_required", MsgMessageRequired)
	}

	req := ragserver.ChatRequest{
		ServiceID:           serviceID.String(),
		Message:             in.Message,
		SessionID:           strings.TrimSpace(in.SessionID),
		ConversationHistory: in.ConversationHistory,
	}
	if req.ConversationHistory == nil {
		req.ConversationHistory = []ragserver.HistoryMessage{}
	}
	if in.StyleID != nil {
		style, err := s.styles.GetByID(dbc, serviceID, *in.StyleID)
		if err != nil {
			return nil, fromRepo("get writing style", err, "style_not_found", msgStyleNotFound)
		}
		req.StyleGuidelines = style.PromptGuidelines()
	}

	resp, err := s.rag.Chat(dbc.Ctx, req)
	if err != nil {
		if ragserver.IsUnavailable(err) {
			s.log.Warn("chat server unavailable", "service_id", serviceID, "error", err)
			return nil, unavailable("chat_unavailable", MsgChatUnavailable, s.cfg.UnavailableHint)
		}
		if se, ok := ragserver.AsStatusError(err); ok {
			s.log.Warn("chat server error", "service_id", serviceID, "status", se.StatusCode, "detail", se.Detail())
			return nil, collaboratorFailed(se.StatusCode, "chat_failed", MsgChatFailed)
		}
		s.log.Error("chat forward failed", "service_id", serviceID, "error", err)
		return nil, collaboratorFailed(http.StatusBadGateway, "chat_failed", MsgChatFailed)
	}
	return resp, nil
}

func (s *chatService) History(dbc dbctx.Context, serviceID uuid.UUID, sessionID string) ([]*types.ChatMessage, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, invalid("session_id_required", "sessionId is required")
	}
	rows, err := s.messages.ListBySession(dbc, serviceID, sessionID)
	if err != nil {
		return nil, internal("list chat history", err)
	}
	return rows, nil
}
