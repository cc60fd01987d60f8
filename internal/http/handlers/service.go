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

type ServiceHandler struct {
	log     *logger.Logger
	tenants services.TenantService
}

func NewServiceHandler(log *logger.Logger, tenants services.TenantService) *ServiceHandler {
	return &ServiceHandler{
		log:     log.With("handler", "ServiceHandler"),
		tenants: tenants,
	}
}

type createServiceReq struct {
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	UserID       *uuid.UUID `json:"user_id"`
	LLMProvider  *string    `json:"llm_provider"`
	LLMAPIKey    *string    `json:"llm_api_key"`
	ChunkSize    *int       `json:"chunk_size" binding:"omitempty,gt=0"`
	ChunkOverlap *int       `json:"chunk_overlap" binding:"omitempty,gte=0"`
}

type updateServiceReq struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	EmbeddingMethod *string `json:"embedding_method"`
	LLMProvider     *string `json:"llm_provider"`
	LLMAPIKey       *string `json:"llm_api_key"`
	ChunkSize       *int    `json:"chunk_size" binding:"omitempty,gt=0"`
	ChunkOverlap    *int    `json:"chunk_overlap" binding:"omitempty,gte=0"`
	IsActive        *bool   `json:"is_active"`
}

// GET /api/services?userId=
func (h *ServiceHandler) List(c *gin.Context) {
	var owner *uuid.UUID
	if raw := strings.TrimSpace(c.Query("userId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_user_id", errorMessage("Invalid userId"))
			return
		}
		owner = &id
	}
	rows, err := h.tenants.List(requestDBC(c), owner)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req createServiceReq
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.tenants.Create(requestDBC(c), services.CreateServiceInput{
		UserID:       req.UserID,
		Name:         req.Name,
		Description:  req.Description,
		LLMProvider:  req.LLMProvider,
		LLMAPIKey:    req.LLMAPIKey,
		ChunkSize:    req.ChunkSize,
		ChunkOverlap: req.ChunkOverlap,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, svc)
}

// GET /api/services/:id
func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	svc, err := h.tenants.Get(requestDBC(c), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, svc)
}

// PUT /api/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	var req updateServiceReq
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.tenants.Update(requestDBC(c), id, services.UpdateServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		EmbeddingMethod: req.EmbeddingMethod,
		LLMProvider:     req.LLMProvider,
		LLMAPIKey:       req.LLMAPIKey,
		ChunkSize:       req.ChunkSize,
		ChunkOverlap:    req.ChunkOverlap,
		IsActive:        req.IsActive,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, svc)
}

// DELETE /api/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	if err := h.tenants.Delete(requestDBC(c), id); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondSuccess(c)
}

// GET /api/services/:id/stats
func (h *ServiceHandler) Stats(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	stats, err := h.tenants.Stats(requestDBC(c), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, stats)
}
