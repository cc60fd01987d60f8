package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

type StyleHandler struct {
	log    *logger.Logger
	styles services.StyleService
}

func NewStyleHandler(log *logger.Logger, styles services.StyleService) *StyleHandler {
	return &StyleHandler{
		log:    log.With("handler", "StyleHandler"),
		styles: styles,
	}
}

type createStyleReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Tone        *string `json:"tone"`
	Guidelines  *string `json:"guidelines"`
	IsDefault   bool    `json:"is_default"`
}

type updateStyleReq struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Tone        *string   `json:"tone"`
	Guidelines  *string   `json:"guidelines"`
	IsDefault   *bool     `json:"is_default"`
}

// GET /api/services/:id/styles
func (h *StyleHandler) List(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	rows, err := h.styles.List(requestDBC(c), svcID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/services/:id/styles
func (h *StyleHandler) Create(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	var req createStyleReq
	if !bindJSON(c, &req) {
		return
	}
	style, err := h.styles.Create(requestDBC(c), svcID, services.CreateStyleInput{
		Name:        req.Name,
		Description: req.Description,
		Tone:        req.Tone,
		Guidelines:  req.Guidelines,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, style)
}

// PUT /api/services/:id/styles
func (h *StyleHandler) Update(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	var req updateStyleReq
	if !bindJSON(c, &req) {
		return
	}
	style, err := h.styles.Update(requestDBC(c), svcID, services.UpdateStyleInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Tone:        req.Tone,
		Guidelines:  req.Guidelines,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, style)
}

// DELETE /api/services/:id/styles?styleId=
func (h *StyleHandler) Delete(c *gin.Context) {
	svcID, ok := serviceID(c)
	if !ok {
		return
	}
	styleID, ok := queryID(c, "styleId", "style_id_required", "Style ID is required")
	if !ok {
		return
	}
	if err := h.styles.Delete(requestDBC(c), svcID, styleID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondSuccess(c)
}
