package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/events"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
)

// SourceDetail is a source with its current chunk count.
type SourceDetail struct {
	*types.Source
	ChunkCount int64 `json:"chunk_count"`
}

type SourceService interface {
	List(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.Source, error)
	Get(dbc dbctx.Context, serviceID, sourceID uuid.UUID) (*SourceDetail, error)
	// Delete removes the blob, then the chunks and the row. A failed blob
	// delete is logged and does not stop the row cleanup.
	Delete(dbc dbctx.Context, serviceID, sourceID uuid.UUID) error
}

type sourceService struct {
	db        *gorm.DB
	log       *logger.Logger
	store     objectstore.Store
	publisher events.Publisher
	sources   repos.SourceRepo
	chunks    repos.ChunkRepo
}

func NewSourceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	store objectstore.Store,
	publisher events.Publisher,
	sources repos.SourceRepo,
	chunks repos.ChunkRepo,
) SourceService {
	if publisher == nil {
		publisher = events.Noop()
	}
	return &sourceService{
		db:        db,
		log:       baseLog.With("service", "SourceService"),
		store:     store,
		publisher: publisher,
		sources:   sources,
		chunks:    chunks,
	}
}

func (s *sourceService) List(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.Source, error) {
	rows, err := s.sources.ListByService(dbc, serviceID)
	if err != nil {
		return nil, internal("list sources", err)
	}
	return rows, nil
}

func (s *sourceService) Get(dbc dbctx.Context, serviceID, sourceID uuid.UUID) (*SourceDetail, error) {
	src, err := s.sources.GetByID(dbc, serviceID, sourceID)
	if err != nil {
		return nil, fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}
	n, err := s.chunks.CountBySource(dbc, sourceID)
	if err != nil {
		return nil, internal("count source chunks", err)
	}
	return &SourceDetail{Source: src, ChunkCount: n}, nil
}

func (s *sourceService) Delete(dbc dbctx.Context, serviceID, sourceID uuid.UUID) error {
	src, err := s.sources.GetByID(dbc, serviceID, sourceID)
	if err != nil {
		return fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}

	if src.FilePath != "" {
		if err := s.store.Delete(dbc.Ctx, src.FilePath); err != nil {
			s.log.Warn("source blob delete failed", "service_id", serviceID, "source_id", sourceID, "file_path", src.FilePath, "error", err)
		}
	}

	var removed int64
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		n, e := s.chunks.DeleteBySource(inner, sourceID)
		if e != nil {
			return e
		}
		removed = n
		return s.sources.Delete(inner, serviceID, sourceID)
	})
	if err != nil {
		return fromRepo("delete source", err, "source_not_found", msgSourceNotFound)
	}

	s.log.Info("source deleted", "service_id", serviceID, "source_id", sourceID, "chunks", removed)
	publish(dbc.Ctx, s.log, s.publisher, events.Event{
		Type:      events.SourceDeleted,
		ServiceID: serviceID.String(),
		SourceID:  sourceID.String(),
	})
	return nil
}
