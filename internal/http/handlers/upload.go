package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// form boundaries and the serviceId field.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	log       *logger.Logger
	ingestion services.IngestionService
	maxBytes  int64
}

func NewUploadHandler(log *logger.Logger, ingestion services.IngestionService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		log:       log.With("handler", "UploadHandler"),
		ingestion: ingestion,
		maxBytes:  maxBytes,
	}
}

// POST /api/upload (multipart: file, serviceId)
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusBadRequest, "file_too_large", errorMessage("File is too large"))
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
			return
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "no_file", errorMessage("No file provided"))
		return
	}
	rawServiceID := strings.TrimSpace(c.PostForm("serviceId"))
	if rawServiceID == "" {
		response.RespondError(c, http.StatusBadRequest, "service_id_required", errorMessage("Service ID is required"))
		return
	}
	svcID, err := uuid.Parse(rawServiceID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_service_id", errorMessage("Invalid service ID"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error("open uploaded file failed", "filename", fh.Filename, "error", err)
		response.RespondError(c, http.StatusBadRequest, "invalid_file", errorMessage("Could not read uploaded file"))
		return
	}
	defer f.Close()

	src, err := h.ingestion.Upload(requestDBC(c), services.UploadInput{
		ServiceID: svcID,
		Filename:  fh.Filename,
		Size:      fh.Size,
		Body:      f,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, src)
}
