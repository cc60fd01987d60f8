package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
	"github.com/yungbote/ragdash-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:  log.With("handler", "ChatHandler"),
		chat: chat,
	}
}

type chatReq struct {
	Message             string                     `json:"message"`
	SessionID           string                     `json:"sessionId"`
	ConversationHistory []ragserver.HistoryMessage `json:"conversationHistory"`
	StyleID             *uuid.UUID                 `json:"styleId"`
}

// POST /api/services/:id/chat
func (h *ChatHandler) Send(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	var req chatReq
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.chat.Send(requestDBC(c), svcID, services.ChatInput{
		Message:             req.Message,
		SessionID:           req.SessionID,
		ConversationHistory: req.ConversationHistory,
		StyleID:             req.StyleID,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, resp)
}

// GET /api/services/:id/chat/history?sessionId=
func (h *ChatHandler) History(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	rows, err := h.chat.History(requestDBC(c), svcID, c.Query("sessionId"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}
