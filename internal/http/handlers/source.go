package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

type SourceHandler struct {
	log       *logger.Logger
	sources   services.SourceService
	ingestion services.IngestionService
}

func NewSourceHandler(log *logger.Logger, sources services.SourceService, ingestion services.IngestionService) *SourceHandler {
	return &SourceHandler{
		log:       log.With("handler", "SourceHandler"),
		sources:   sources,
		ingestion: ingestion,
	}
}

// GET /api/services/:id/sources
func (h *SourceHandler) List(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	rows, err := h.sources.List(requestDBC(c), svcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/services/:id/sources/:sourceId
func (h *SourceHandler) Get(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	srcID, ok := pathID(c, "sourceId", "invalid_source_id", "Invalid source ID")
	if !ok {
		return
	}
	detail, err := h.sources.Get(requestDBC(c), svcID, srcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, detail)
}

// DELETE /api/services/:id/sources?sourceId=
func (h *SourceHandler) Delete(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	srcID, ok := queryID(c, "sourceId", "source_id_required", "Source ID is required")
	if !ok {
		return
	}
	if err := h.sources.Delete(requestDBC(c), svcID, srcID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondSuccess(c)
}

// POST /api/services/:id/sources/:sourceId/reprocess
func (h *SourceHandler) Reprocess(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	srcID, ok := pathID(c, "sourceId", "invalid_source_id", "Invalid source ID")
	if !ok {
		return
	}
	src, err := h.ingestion.Reprocess(requestDBC(c), svcID, srcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, src)
}

// POST /api/services/:id/sources/:sourceId/sync
func (h *SourceHandler) Sync(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	srcID, ok := pathID(c, "sourceId", "invalid_source_id", "Invalid source ID")
	if !ok {
		return
	}
	src, err := h.ingestion.SyncStatus(requestDBC(c), svcID, srcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, src)
}
