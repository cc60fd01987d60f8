package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type ChunkUpdate struct {
	ID      uuid.UUID
	Content string
}

type ChunkService interface {
	List(dbc dbctx.Context, serviceID, sourceID uuid.UUID) ([]*types.Chunk, error)
	// BulkUpdate replaces chunk contents in one transaction. Any id outside
	// the service and source aborts the whole batch with a 404.
	BulkUpdate(dbc dbctx.Context, serviceID, sourceID uuid.UUID, updates []ChunkUpdate) (int, error)
}

type chunkService struct {
	db     *gorm.DB
	log    *logger.Logger
	chunks repos.ChunkRepo
}

func NewChunkService(db *gorm.DB, baseLog *logger.Logger, chunks repos.ChunkRepo) ChunkService {
	return &chunkService{
		db:     db,
		log:    baseLog.With("service", "ChunkService"),
		chunks: chunks,
	}
}

func (s *chunkService) List(dbc dbctx.Context, serviceID, sourceID uuid.UUID) ([]*types.Chunk, error) {
	rows, err := s.chunks.ListBySource(dbc, serviceID, sourceID)
	if err != nil {
		return nil, internal("list chunks", err)
	}
	return rows, nil
}

func (s *chunkService) BulkUpdate(dbc dbctx.Context, serviceID, sourceID uuid.UUID, updates []ChunkUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	for _, u := range updates {
		if u.ID == uuid.Nil {
			return 0, invalid("chunk_id_required", "Each update requires a chunk id")
		}
	}
	err := inTx(s.db, dbc, func(inner dbctx.Context) error {
		for _, u := range updates {
			if err := s.chunks.UpdateContent(inner, serviceID, sourceID, u.ID, u.Content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fromRepo("update chunks", err, "chunk_not_found", msgChunkNotFound)
	}
	s.log.Info("chunks updated", "service_id", serviceID, "source_id", sourceID, "count", len(updates))
	return len(updates), nil
}
