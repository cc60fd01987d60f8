package styles

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/dberr"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type WritingStyleRepo interface {
	Create(dbc dbctx.Context, style *types.WritingStyle) error
	GetByID(dbc dbctx.Context, serviceID, id uuid.UUID) (*types.WritingStyle, error)
	ListByService(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.WritingStyle, error)
	CountByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
	UpdateFields(dbc dbctx.Context, serviceID, id uuid.UUID, updates map[string]interface{}) error
	// UnsetDefaults clears is_default on every style of the service except keep.
	UnsetDefaults(dbc dbctx.Context, serviceID uuid.UUID, keep uuid.UUID) error
	// GetDefault and Earliest return nil, nil when the service has no styles.
	GetDefault(dbc dbctx.Context, serviceID uuid.UUID) (*types.WritingStyle, error)
	Earliest(dbc dbctx.Context, serviceID uuid.UUID) (*types.WritingStyle, error)
	Delete(dbc dbctx.Context, serviceID, id uuid.UUID) error
	DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
}

type writingStyleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWritingStyleRepo(db *gorm.DB, baseLog *logger.Logger) WritingStyleRepo {
	repoLog := baseLog.With("repo", "WritingStyleRepo")
	return &writingStyleRepo{db: db, log: repoLog}
}

func (r *writingStyleRepo) Create(dbc dbctx.Context, style *types.WritingStyle) error {
	if err := dbc.DB(r.db).Create(style).Error; err != nil {
		return dberr.Map("create writing style", err)
	}
	return nil
}

func (r *writingStyleRepo) GetByID(dbc dbctx.Context, serviceID, id uuid.UUID) (*types.WritingStyle, error) {
	var style types.WritingStyle
	if err := dbc.DB(r.db).
		Where("id = ? AND service_id = ?", id, serviceID).
		First(&style).Error; err != nil {
		return nil, dberr.Map("get writing style", err)
	}
	return &style, nil
}

func (r *writingStyleRepo) ListByService(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.WritingStyle, error) {
	results := []*types.WritingStyle{}
	if err := dbc.DB(r.db).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, dberr.Map("list writing styles", err)
	}
	return results, nil
}

func (r *writingStyleRepo) CountByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.WritingStyle{}).Where("service_id = ?", serviceID).Count(&n).Error; err != nil {
		return 0, dberr.Map("count writing styles", err)
	}
	return n, nil
}

func (r *writingStyleRepo) UpdateFields(dbc dbctx.Context, serviceID, id uuid.UUID, updates map[string]interface{}) error {
	cols := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		cols[k] = v
	}
	cols["updated_at"] = time.Now().UTC()

	res := dbc.DB(r.db).
		Model(&types.WritingStyle{}).
		Where("id = ? AND service_id = ?", id, serviceID).
		Updates(cols)
	if res.Error != nil {
		return dberr.Map("update writing style", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("update writing style", dberr.ErrNotFound)
	}
	return nil
}

func (r *writingStyleRepo) UnsetDefaults(dbc dbctx.Context, serviceID uuid.UUID, keep uuid.UUID) error {
	if err := dbc.DB(r.db).
		Model(&types.WritingStyle{}).
		Where("service_id = ? AND id <> ? AND is_default = ?", serviceID, keep, true).
		Updates(map[string]interface{}{
			"is_default": false,
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return dberr.Map("unset default writing styles", err)
	}
	return nil
}

func (r *writingStyleRepo) GetDefault(dbc dbctx.Context, serviceID uuid.UUID) (*types.WritingStyle, error) {
	return r.first(dbc, "get default writing style",
		dbc.DB(r.db).Where("service_id = ? AND is_default = ?", serviceID, true).Order("created_at ASC"))
}

func (r *writingStyleRepo) Earliest(dbc dbctx.Context, serviceID uuid.UUID) (*types.WritingStyle, error) {
	return r.first(dbc, "get earliest writing style",
		dbc.DB(r.db).Where("service_id = ?", serviceID).Order("created_at ASC"))
}

func (r *writingStyleRepo) first(_ dbctx.Context, op string, q *gorm.DB) (*types.WritingStyle, error) {
	var style types.WritingStyle
	err := q.First(&style).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return &style, nil
}

func (r *writingStyleRepo) Delete(dbc dbctx.Context, serviceID, id uuid.UUID) error {
	res := dbc.DB(r.db).
		Where("id = ? AND service_id = ?", id, serviceID).
		Delete(&types.WritingStyle{})
	if res.Error != nil {
		return dberr.Map("delete writing style", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("delete writing style", dberr.ErrNotFound)
	}
	return nil
}

func (r *writingStyleRepo) DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("service_id = ?", serviceID).Delete(&types.WritingStyle{})
	if res.Error != nil {
		return 0, dberr.Map("delete writing styles by service", res.Error)
	}
	return res.RowsAffected, nil
}
