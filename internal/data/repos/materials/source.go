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

type SourceRepo interface {
	Create(dbc dbctx.Context, src *types.Source) error
	GetByID(dbc dbctx.Context, serviceID, id uuid.UUID) (*types.Source, error)
	// GetByIDAnyService looks a source up without a service scope.
	GetByIDAnyService(dbc dbctx.Context, id uuid.UUID) (*types.Source, error)
	ListByService(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.Source, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, serviceID, id uuid.UUID) error
	DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
	CountByStatus(dbc dbctx.Context, serviceID uuid.UUID) (map[string]int64, error)
}

type sourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceRepo(db *gorm.DB, baseLog *logger.Logger) SourceRepo {
	repoLog := baseLog.With("repo", "SourceRepo")
	return &sourceRepo{db: db, log: repoLog}
}

func (r *sourceRepo) Create(dbc dbctx.Context, src *types.Source) error {
	if err := dbc.DB(r.db).Create(src).Error; err != nil {
		return dberr.Map("create source", err)
	}
	return nil
}

func (r *sourceRepo) GetByID(dbc dbctx.Context, serviceID, id uuid.UUID) (*types.Source, error) {
	var src types.Source
	if err := dbc.DB(r.db).
		Where("id = ? AND service_id = ?", id, serviceID).
		First(&src).Error; err != nil {
		return nil, dberr.Map("get source", err)
	}
	return &src, nil
}

func (r *sourceRepo) GetByIDAnyService(dbc dbctx.Context, id uuid.UUID) (*types.Source, error) {
	var src types.Source
	if err := dbc.DB(r.db).Where("id = ?", id).First(&src).Error; err != nil {
		return nil, dberr.Map("get source", err)
	}
	return &src, nil
}

func (r *sourceRepo) ListByService(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.Source, error) {
	results := []*types.Source{}
	if err := dbc.DB(r.db).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, dberr.Map("list sources", err)
	}
	return results, nil
}

func (r *sourceRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	cols := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		cols[k] = v
	}
	cols["updated_at"] = time.Now().UTC()

	res := dbc.DB(r.db).Model(&types.Source{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return dberr.Map("update source", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("update source", dberr.ErrNotFound)
	}
	return nil
}

func (r *sourceRepo) Delete(dbc dbctx.Context, serviceID, id uuid.UUID) error {
	res := dbc.DB(r.db).
		Where("id = ? AND service_id = ?", id, serviceID).
		Delete(&types.Source{})
	if res.Error != nil {
		return dberr.Map("delete source", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("delete source", dberr.ErrNotFound)
	}
	return nil
}

func (r *sourceRepo) DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("service_id = ?", serviceID).Delete(&types.Source{})
	if res.Error != nil {
		return 0, dberr.Map("delete sources by service", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sourceRepo) CountByStatus(dbc dbctx.Context, serviceID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Source{}).
		Select("status, COUNT(*) AS n").
		Where("service_id = ?", serviceID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, dberr.Map("count sources", err)
	}
	out := map[string]int64{
		types.SourceStatusPending:    0,
		types.SourceStatusProcessing: 0,
		types.SourceStatusCompleted:  0,
		types.SourceStatusFailed:     0,
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
