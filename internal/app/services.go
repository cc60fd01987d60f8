package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/services"
)

type Services struct {
	Tenant    services.TenantService
	Source    services.SourceService
	Ingestion services.IngestionService
	Chunk     services.ChunkService
	Chat      services.ChatService
	Feedback  services.FeedbackService
	Style     services.StyleService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Tenant: services.NewTenantService(services.TenantServiceDeps{
			DB:        db,
			Log:       log,
			Store:     c.Store,
			Publisher: c.Events,
			Services:  r.Service,
			Sources:   r.Source,
			Chunks:    r.Chunk,
			Messages:  r.ChatMessage,
			Feedback:  r.Feedback,
			Styles:    r.WritingStyle,
		}),
		Source: services.NewSourceService(db, log, c.Store, c.Events, r.Source, r.Chunk),
		Ingestion: services.NewIngestionService(services.IngestionServiceDeps{
			DB:        db,
			Log:       log,
			Config:    services.IngestionConfig{MaxUploadBytes: cfg.MaxUploadBytes()},
			Store:     c.Store,
			RAG:       c.RAG,
			Publisher: c.Events,
			Services:  r.Service,
			Sources:   r.Source,
			Chunks:    r.Chunk,
		}),
		Chunk:    services.NewChunkService(db, log, r.Chunk),
		Chat:     services.NewChatService(log, services.ChatServiceConfig{}, c.RAG, r.ChatMessage, r.WritingStyle),
		Feedback: services.NewFeedbackService(log, cfg.FeedbackConcurrency, r.ChatMessage, r.Feedback),
		Style:    services.NewStyleService(db, log, r.Service, r.WritingStyle),
	}
}
