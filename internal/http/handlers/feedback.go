package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

type FeedbackHandler struct {
	log      *logger.Logger
	feedback services.FeedbackService
}

func NewFeedbackHandler(log *logger.Logger, feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		log:      log.With("handler", "FeedbackHandler"),
		feedback: feedback,
	}
}

type feedbackReq struct {
	ChatMessageID     string  `json:"chatMessageId"`
	FeedbackType      string  `json:"feedbackType"`
	CorrectionMessage *string `json:"correctionMessage"`
	ExpectedResponse  *string `json:"expectedResponse"`
}

// GET /api/services/:id/feedback
func (h *FeedbackHandler) List(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	rows, err := h.feedback.List(requestDBC(c), svcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/services/:id/feedback
func (h *FeedbackHandler) Create(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	var req feedbackReq
	if !bindJSON(c, &req) {
		return
	}
	var msgID uuid.UUID
	if raw := strings.TrimSpace(req.ChatMessageID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_chat_message_id", errorMessage("Invalid chatMessageId"))
			return
		}
		msgID = id
	}
	fb, err := h.feedback.Record(requestDBC(c), svcID, services.FeedbackInput{
		ChatMessageID:     msgID,
		FeedbackType:      req.FeedbackType,
		CorrectionMessage: req.CorrectionMessage,
		ExpectedResponse:  req.ExpectedResponse,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, fb)
}
