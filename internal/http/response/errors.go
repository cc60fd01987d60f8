package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/platform/apierr"
	"github.com/yungbote/ragdash-backend/internal/platform/ctxutil"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

const msgInternal = "Internal server error"

type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondAPIError writes err using the status and code chosen by the
// service layer. Internal failures are logged and answered generically.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body := ErrorBody{Error: ae.Error(), Code: ae.Code, Details: ae.Details}
	if status >= 500 && (ae.Code == "" || ae.Code == "internal_error") {
		body.Error = msgInternal
		body.Code = "internal_error"
	}
	if log != nil {
		fields := append([]interface{}{
			"status", status,
			"code", body.Code,
			"route", c.FullPath(),
			"error", err,
		}, ctxutil.LogFields(c.Request.Context())...)
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}
	}
	c.JSON(status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
