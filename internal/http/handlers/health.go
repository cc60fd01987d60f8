package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

const msgRAGUnavailable = "RAG server is not reachable"

type HealthHandler struct {
	log *logger.Logger
	rag ragserver.Client
}

func NewHealthHandler(log *logger.Logger, rag ragserver.Client) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), rag: rag}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// RAGHealth reports whether the processing service answers its health probe.
func (h *HealthHandler) RAGHealth(c *gin.Context) {
	if h.rag == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unconfigured"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	st, err := h.rag.Health(ctx)
	if err != nil {
		h.log.Warn("RAG health probe failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": msgRAGUnavailable})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rag": st})
}
