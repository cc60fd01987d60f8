package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/http"
	httpH "github.com/yungbote/ragdash-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ragdash-backend/internal/http/middleware"
	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type Middleware struct {
	IngestionAuth *httpMW.IngestionAuth
}

type Handlers struct {
	Health          *httpH.HealthHandler
	Service         *httpH.ServiceHandler
	Source          *httpH.SourceHandler
	Upload          *httpH.UploadHandler
	Chunk           *httpH.ChunkHandler
	Chat            *httpH.ChatHandler
	Feedback        *httpH.FeedbackHandler
	Style           *httpH.StyleHandler
	IngestionStatus *httpH.IngestionStatusHandler
}

func wireHandlers(log *logger.Logger, cfg Config, s Services, c Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:          httpH.NewHealthHandler(log, c.RAG),
		Service:         httpH.NewServiceHandler(log, s.Tenant),
		Source:          httpH.NewSourceHandler(log, s.Source, s.Ingestion),
		Upload:          httpH.NewUploadHandler(log, s.Ingestion, cfg.MaxUploadBytes()),
		Chunk:           httpH.NewChunkHandler(log, s.Chunk),
		Chat:            httpH.NewChatHandler(log, s.Chat),
		Feedback:        httpH.NewFeedbackHandler(log, s.Feedback),
		Style:           httpH.NewStyleHandler(log, s.Style),
		IngestionStatus: httpH.NewIngestionStatusHandler(log, s.Ingestion),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		IngestionAuth: httpMW.NewIngestionAuth(log, cfg.IngestionCallbackToken),
	}
}

func routerConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, m Middleware) http.RouterConfig {
	return http.RouterConfig{
		Log:                    log,
		Metrics:                metrics,
		ServiceName:            cfg.Otel.ServiceName,
		AllowedOrigins:         cfg.AllowedOrigins,
		IngestionAuth:          m.IngestionAuth,
		HealthHandler:          h.Health,
		ServiceHandler:         h.Service,
		SourceHandler:          h.Source,
		UploadHandler:          h.Upload,
		ChunkHandler:           h.Chunk,
		ChatHandler:            h.Chat,
		FeedbackHandler:        h.Feedback,
		StyleHandler:           h.Style,
		IngestionStatusHandler: h.IngestionStatus,
	}
}

func wireRouter(rc http.RouterConfig) *gin.Engine {
	return http.NewRouter(rc)
}
