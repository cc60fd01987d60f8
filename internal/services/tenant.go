package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/events"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
)

type CreateServiceInput struct {
	UserID       *uuid.UUID
	Name         string
	Description  *string
	LLMProvider  *string
	LLMAPIKey    *string
	ChunkSize    *int
	ChunkOverlap *int
}

// UpdateServiceInput holds the fields present in a PUT body. Nil means
// absent. An empty string clears a nullable column.
type UpdateServiceInput struct {
	Name            *string
	Description     *string
	EmbeddingMethod *string
	LLMProvider     *string
	LLMAPIKey       *string
	ChunkSize       *int
	ChunkOverlap    *int
	IsActive        *bool
}

type ServiceStats struct {
	ServiceID    uuid.UUID        `json:"service_id"`
	Sources      map[string]int64 `json:"sources"`
	TotalSources int64            `json:"total_sources"`
	Chunks       int64            `json:"chunks"`
	ChatMessages int64            `json:"chat_messages"`
	Sessions     int64            `json:"sessions"`
	Feedback     map[string]int64 `json:"feedback"`
	Styles       int64            `json:"styles"`
}

type TenantService interface {
	List(dbc dbctx.Context, userID *uuid.UUID) ([]*types.Service, error)
	Create(dbc dbctx.Context, in CreateServiceInput) (*types.Service, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Service, error)
	Update(dbc dbctx.Context, id uuid.UUID, in UpdateServiceInput) (*types.Service, error)
	// Delete removes the service with every row and blob that references it.
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Stats(dbc dbctx.Context, id uuid.UUID) (*ServiceStats, error)
}

type tenantService struct {
	db        *gorm.DB
	log       *logger.Logger
	store     objectstore.Store
	publisher events.Publisher

	services repos.ServiceRepo
	sources  repos.SourceRepo
	chunks   repos.ChunkRepo
	messages repos.ChatMessageRepo
	feedback repos.FeedbackRepo
	styles   repos.WritingStyleRepo
}

type TenantServiceDeps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Store     objectstore.Store
	Publisher events.Publisher

	Services repos.ServiceRepo
	Sources  repos.SourceRepo
	Chunks   repos.ChunkRepo
	Messages repos.ChatMessageRepo
	Feedback repos.FeedbackRepo
	Styles   repos.WritingStyleRepo
}

func NewTenantService(deps TenantServiceDeps) TenantService {
	pub := deps.Publisher
	if pub == nil {
		pub = events.Noop()
	}
	return &tenantService{
		db:        deps.DB,
		log:       deps.Log.With("service", "TenantService"),
		store:     deps.Store,
		publisher: pub,
		services:  deps.Services,
		sources:   deps.Sources,
		chunks:    deps.Chunks,
		messages:  deps.Messages,
		feedback:  deps.Feedback,
		styles:    deps.Styles,
	}
}

func (s *tenantService) List(dbc dbctx.Context, userID *uuid.UUID) ([]*types.Service, error) {
	rows, err := s.services.List(dbc, userID)
	if err != nil {
		return nil, internal("list services", err)
	}
	return rows, nil
}

func (s *tenantService) Create(dbc dbctx.Context, in CreateServiceInput) (*types.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name_required", "Name is required")
	}
	svc := &types.Service{
		UserID:          in.UserID,
		Name:            name,
		Description:     nilIfEmpty(in.Description),
		EmbeddingMethod: types.DefaultEmbeddingMethod,
		LLMProvider:     nilIfEmpty(in.LLMProvider),
		LLMAPIKey:       nilIfEmpty(in.LLMAPIKey),
		ChunkSize:       types.DefaultChunkSize,
		ChunkOverlap:    types.DefaultChunkOverlap,
		IsActive:        true,
	}
	if in.ChunkSize != nil {
		svc.ChunkSize = *in.ChunkSize
	}
	if in.ChunkOverlap != nil {
		svc.ChunkOverlap = *in.ChunkOverlap
	}
	if err := validateChunking(svc.ChunkSize, svc.ChunkOverlap); err != nil {
		return nil, err
	}
	if err := s.services.Create(dbc, svc); err != nil {
		return nil, internal("create service", err)
	}
	s.log.Info("service created", "service_id", svc.ID, "user_id", in.UserID)
	return svc, nil
}

func (s *tenantService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Service, error) {
	svc, err := s.services.GetByID(dbc, id)
	if err != nil {
		return nil, fromRepo("get service", err, "service_not_found", msgServiceNotFound)
	}
	return svc, nil
}

func (s *tenantService) Update(dbc dbctx.Context, id uuid.UUID, in UpdateServiceInput) (*types.Service, error) {
	current, err := s.Get(dbc, id)
	if err != nil {
		return nil, err
	}
	// An empty input still refreshes updated_at.
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name_required", "Name is required")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = nilIfEmpty(in.Description)
	}
	if in.EmbeddingMethod != nil {
		if !types.IsSupportedEmbeddingMethod(*in.EmbeddingMethod) {
			return nil, invalid("unsupported_embedding_method", "Unsupported embedding method")
		}
		updates["embedding_method"] = *in.EmbeddingMethod
	}
	if in.LLMProvider != nil {
		updates["llm_provider"] = nilIfEmpty(in.LLMProvider)
	}
	if in.LLMAPIKey != nil {
		updates["llm_api_key"] = nilIfEmpty(in.LLMAPIKey)
	}
	size, overlap := current.ChunkSize, current.ChunkOverlap
	if in.ChunkSize != nil {
		size = *in.ChunkSize
		updates["chunk_size"] = size
	}
	if in.ChunkOverlap != nil {
		overlap = *in.ChunkOverlap
		updates["chunk_overlap"] = overlap
	}
	if in.ChunkSize != nil || in.ChunkOverlap != nil {
		if err := validateChunking(size, overlap); err != nil {
			return nil, err
		}
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	svc, err := s.services.Update(dbc, id, updates)
	if err != nil {
		return nil, fromRepo("update service", err, "service_not_found", msgServiceNotFound)
	}
	return svc, nil
}

func (s *tenantService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if _, err := s.Get(dbc, id); err != nil {
		return err
	}
	srcs, err := s.sources.ListByService(dbc, id)
	if err != nil {
		return internal("list sources for delete", err)
	}

	for _, src := range srcs {
		if src.FilePath == "" {
			continue
		}
		if err := s.store.Delete(dbc.Ctx, src.FilePath); err != nil {
			s.log.Warn("source blob delete failed", "service_id", id, "source_id", src.ID, "file_path", src.FilePath, "error", err)
		}
	}
	prefix := id.String() + "/"
	swept, err := s.store.DeletePrefix(dbc.Ctx, prefix)
	if err != nil {
		return internal("delete service blobs", err)
	}

	var counts [5]int64
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		var e error
		if counts[0], e = s.chunks.DeleteByService(inner, id); e != nil {
			return e
		}
		if counts[1], e = s.feedback.DeleteByService(inner, id); e != nil {
			return e
		}
		if counts[2], e = s.messages.DeleteByService(inner, id); e != nil {
			return e
		}
		if counts[3], e = s.styles.DeleteByService(inner, id); e != nil {
			return e
		}
		if counts[4], e = s.sources.DeleteByService(inner, id); e != nil {
			return e
		}
		return s.services.Delete(inner, id)
	})
	if err != nil {
		return fromRepo("delete service", err, "service_not_found", msgServiceNotFound)
	}

	s.log.Info("service deleted",
		"service_id", id,
		"blobs_swept", swept,
		"chunks", counts[0],
		"feedback", counts[1],
		"chat_messages", counts[2],
		"styles", counts[3],
		"sources", counts[4],
	)
	publish(dbc.Ctx, s.log, s.publisher, events.Event{Type: events.ServiceDeleted, ServiceID: id.String()})
	return nil
}

func (s *tenantService) Stats(dbc dbctx.Context, id uuid.UUID) (*ServiceStats, error) {
	if _, err := s.Get(dbc, id); err != nil {
		return nil, err
	}
	out := &ServiceStats{ServiceID: id}
	var err error
	if out.Sources, err = s.sources.CountByStatus(dbc, id); err != nil {
		return nil, internal("count sources", err)
	}
	for _, n := range out.Sources {
		out.TotalSources += n
	}
	if out.Chunks, err = s.chunks.CountByService(dbc, id); err != nil {
		return nil, internal("count chunks", err)
	}
	if out.ChatMessages, err = s.messages.CountByService(dbc, id); err != nil {
		return nil, internal("count chat messages", err)
	}
	if out.Sessions, err = s.messages.CountSessions(dbc, id); err != nil {
		return nil, internal("count chat sessions", err)
	}
	if out.Feedback, err = s.feedback.CountByType(dbc, id); err != nil {
		return nil, internal("count feedback", err)
	}
	if out.Styles, err = s.styles.CountByService(dbc, id); err != nil {
		return nil, internal("count styles", err)
	}
	return out, nil
}

func validateChunking(size, overlap int) error {
	if size <= 0 {
		return invalid("invalid_chunk_size", "chunk_size must be positive")
	}
	if overlap < 0 || overlap >= size {
		return invalid("invalid_chunk_overlap", "chunk_overlap must be between 0 and chunk_size")
	}
	return nil
}

func nilIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
