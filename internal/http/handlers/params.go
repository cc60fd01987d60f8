package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/ragdash-backend/internal/http/response"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
)

func requestDBC(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// pathID parses a uuid path parameter and writes a 400 when it is invalid.
func pathID(c *gin.Context, name, code, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, errorMessage(msg))
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses a required uuid query parameter. Missing values answer
// with missingMsg, malformed ones with "Invalid <name>".
func queryID(c *gin.Context, name, code, missingMsg string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, code, errorMessage(missingMsg))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+code, errorMessage("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func serviceID(c *gin.Context) (uuid.UUID, bool) {
	return pathID(c, "id", "invalid_service_id", "Invalid service ID")
}

// bindJSON decodes the request body into dst and writes a 400 when decoding
// or binding validation fails.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errorMessage(describeValidation(verrs)))
		return false
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_request", errorMessage("Invalid request body"))
	return false
}

func describeValidation(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "gt", "gte", "lt", "lte", "min", "max":
			parts = append(parts, fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return "Invalid request body: " + strings.Join(parts, "; ")
}

type errorMessage string

func (e errorMessage) Error() string { return string(e) }
