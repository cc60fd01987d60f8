package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/ragdash-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ragdash-backend/internal/http/middleware"
	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	IngestionAuth *httpMW.IngestionAuth

	HealthHandler          *httpH.HealthHandler
	ServiceHandler         *httpH.ServiceHandler
	SourceHandler          *httpH.SourceHandler
	UploadHandler          *httpH.UploadHandler
	ChunkHandler           *httpH.ChunkHandler
	ChatHandler            *httpH.ChatHandler
	FeedbackHandler        *httpH.FeedbackHandler
	StyleHandler           *httpH.StyleHandler
	IngestionStatusHandler *httpH.IngestionStatusHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ragdash"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/healthcheck/rag", cfg.HealthHandler.RAGHealth)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Services
		if cfg.ServiceHandler != nil {
			api.GET("/services", cfg.ServiceHandler.List)
			api.POST("/services", cfg.ServiceHandler.Create)
			api.GET("/services/:id", cfg.ServiceHandler.Get)
			api.PUT("/services/:id", cfg.ServiceHandler.Update)
			api.DELETE("/services/:id", cfg.ServiceHandler.Delete)
			api.GET("/services/:id/stats", cfg.ServiceHandler.Stats)
		}

		// Sources
		if cfg.SourceHandler != nil {
			api.GET("/services/:id/sources", cfg.SourceHandler.List)
			api.DELETE("/services/:id/sources", cfg.SourceHandler.Delete)
			api.GET("/services/:id/sources/:sourceId", cfg.SourceHandler.Get)
			api.POST("/services/:id/sources/:sourceId/reprocess", cfg.SourceHandler.Reprocess)
			api.POST("/services/:id/sources/:sourceId/sync", cfg.SourceHandler.Sync)
		}
		if cfg.UploadHandler != nil {
			api.POST("/upload", cfg.UploadHandler.Upload)
		}

		// Chunks
		if cfg.ChunkHandler != nil {
			api.GET("/services/:id/sources/:sourceId/chunks", cfg.ChunkHandler.List)
			api.PUT("/services/:id/sources/:sourceId/chunks", cfg.ChunkHandler.Update)
		}

		// Chat
		if cfg.ChatHandler != nil {
			api.POST("/services/:id/chat", cfg.ChatHandler.Send)
			api.GET("/services/:id/chat/history", cfg.ChatHandler.History)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			api.GET("/services/:id/feedback", cfg.FeedbackHandler.List)
			api.POST("/services/:id/feedback", cfg.FeedbackHandler.Create)
		}

		// Writing styles
		if cfg.StyleHandler != nil {
			api.GET("/services/:id/styles", cfg.StyleHandler.List)
			api.POST("/services/:id/styles", cfg.StyleHandler.Create)
			api.PUT("/services/:id/styles", cfg.StyleHandler.Update)
			api.DELETE("/services/:id/styles", cfg.StyleHandler.Delete)
		}
	}

	internal := r.Group("/internal")
	{
		if cfg.IngestionAuth != nil {
			internal.Use(cfg.IngestionAuth.Require())
		}
		if cfg.IngestionStatusHandler != nil {
			internal.PUT("/sources/:sourceId/status", cfg.IngestionStatusHandler.Update)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "not_found"})
	})

	return r
}
