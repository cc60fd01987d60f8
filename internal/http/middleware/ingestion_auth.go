package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

// IngestionAuth guards the processing service callbacks with a shared
// bearer token. An empty token leaves the routes open.
type IngestionAuth struct {
	log   *logger.Logger
	token string
}

func NewIngestionAuth(log *logger.Logger, token string) *IngestionAuth {
	return &IngestionAuth{
		log:   log.With("Middleware", "IngestionAuth"),
		token: strings.TrimSpace(token),
	}
}

func (a *IngestionAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.token == "" {
			c.Next()
			return
		}
		got := extractBearer(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(a.token)) != 1 {
			a.log.Warn("rejected ingestion callback", "path", c.Request.URL.Path, "has_token", got != "")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid token",
				"code":  "unauthorized",
			})
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
