package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

// IngestionStatusHandler receives status reports from the processing service.
type IngestionStatusHandler struct {
	log       *logger.Logger
	ingestion services.IngestionService
}

func NewIngestionStatusHandler(log *logger.Logger, ingestion services.IngestionService) *IngestionStatusHandler {
	return &IngestionStatusHandler{
		log:       log.With("handler", "IngestionStatusHandler"),
		ingestion: ingestion,
	}
}

type statusReq struct {
	Status       string         `json:"status" binding:"required"`
	ErrorMessage *string        `json:"error_message"`
	Metadata     map[string]any `json:"metadata"`
}

// PUT /internal/sources/:sourceId/status
func (h *IngestionStatusHandler) Update(c *gin.Context) {
	srcID, ok := pathID(c, "sourceId", "invalid_source_id", "Invalid source ID")
	if !ok {
		return
	}
	var req statusReq
	if !bindJSON(c, &req) {
		return
	}
	src, err := h.ingestion.ApplyStatus(requestDBC(c), srcID, services.StatusUpdate{
		Status:       req.Status,
		ErrorMessage: req.ErrorMessage,
		Metadata:     req.Metadata,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, src)
}
