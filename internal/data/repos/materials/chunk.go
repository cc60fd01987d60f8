package materials

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/dberr"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type ChunkRepo interface {
	Create(dbc dbctx.Context, chunks []*types.Chunk) error
	ListBySource(dbc dbctx.Context, serviceID, sourceID uuid.UUID) ([]*types.Chunk, error)
	CountBySource(dbc dbctx.Context, sourceID uuid.UUID) (int64, error)
	CountByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
	// UpdateContent rewrites one chunk's content; it returns ErrNotFound
	// when id is not a chunk of sourceID within serviceID.
	UpdateContent(dbc dbctx.Context, serviceID, sourceID, id uuid.UUID, content string) error
	DeleteBySource(dbc dbctx.Context, sourceID uuid.UUID) (int64, error)
	DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
}

type chunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChunkRepo(db *gorm.DB, baseLog *logger.Logger) ChunkRepo {
	repoLog := baseLog.With("repo", "ChunkRepo")
	return &chunkRepo{db: db, log: repoLog}
}

func (r *chunkRepo) Create(dbc dbctx.Context, chunks []*types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := dbc.DB(r.db).Create(&chunks).Error; err != nil {
		return dberr.Map("create chunks", err)
	}
	return nil
}

func (r *chunkRepo) ListBySource(dbc dbctx.Context, serviceID, sourceID uuid.UUID) ([]*types.Chunk, error) {
	results := []*types.Chunk{}
	if err := dbc.DB(r.db).
		Where("service_id = ? AND source_id = ?", serviceID, sourceID).
		Order("chunk_index ASC").
		Find(&results).Error; err != nil {
		return nil, dberr.Map("list chunks", err)
	}
	return results, nil
}

func (r *chunkRepo) CountBySource(dbc dbctx.Context, sourceID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Chunk{}).Where("source_id = ?", sourceID).Count(&n).Error; err != nil {
		return 0, dberr.Map("count chunks", err)
	}
	return n, nil
}

func (r *chunkRepo) CountByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Chunk{}).Where("service_id = ?", serviceID).Count(&n).Error; err != nil {
		return 0, dberr.Map("count chunks", err)
	}
	return n, nil
}

func (r *chunkRepo) UpdateContent(dbc dbctx.Context, serviceID, sourceID, id uuid.UUID, content string) error {
	res := dbc.DB(r.db).
		Model(&types.Chunk{}).
		Where("id = ? AND source_id = ? AND service_id = ?", id, sourceID, serviceID).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return dberr.Map("update chunk", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("update chunk", dberr.ErrNotFound)
	}
	return nil
}

func (r *chunkRepo) DeleteBySource(dbc dbctx.Context, sourceID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("source_id = ?", sourceID).Delete(&types.Chunk{})
	if res.Error != nil {
		return 0, dberr.Map("delete chunks by source", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *chunkRepo) DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("service_id = ?", serviceID).Delete(&types.Chunk{})
	if res.Error != nil {
		return 0, dberr.Map("delete chunks by service", res.Error)
	}
	return res.RowsAffected, nil
}
