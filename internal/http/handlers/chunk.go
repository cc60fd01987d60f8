package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

type ChunkHandler struct {
	log    *logger.Logger
	chunks services.ChunkService
}

func NewChunkHandler(log *logger.Logger, chunks services.ChunkService) *ChunkHandler {
	return &ChunkHandler{
		log:    log.With("handler", "ChunkHandler"),
		chunks: chunks,
	}
}

type chunkUpdateReq struct {
	Updates *[]struct {
		ID      uuid.UUID `json:"id"`
		Content string    `json:"content"`
	} `json:"updates"`
}

// GET /api/services/:id/sources/:sourceId/chunks
func (h *ChunkHandler) List(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	srcID, ok := pathID(c, "sourceId", "invalid_source_id", "Invalid source ID")
	if !ok {
		return
	}
	rows, err := h.chunks.List(requestDBC(c), svcID, srcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// PUT /api/services/:id/sources/:sourceId/chunks
func (h *ChunkHandler) Update(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	srcID, ok := pathID(c, "sourceId", "invalid_source_id", "Invalid source ID")
	if !ok {
		return
	}
	var req chunkUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Updates == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errorMessage("Invalid request body - expected updates array"))
		return
	}
	updates := make([]services.ChunkUpdate, 0, len(*req.Updates))
	for _, u := range *req.Updates {
		updates = append(updates, services.ChunkUpdate{ID: u.ID, Content: u.Content})
	}
	n, err := h.chunks.BulkUpdate(requestDBC(c), svcID, srcID, updates)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "updated": n})
}
