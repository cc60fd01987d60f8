package tenancy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/dberr"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type ServiceRepo interface {
	Create(dbc dbctx.Context, svc *types.Service) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Service, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	List(dbc dbctx.Context, userID *uuid.UUID) ([]*types.Service, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.Service, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type serviceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServiceRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRepo {
	repoLog := baseLog.With("repo", "ServiceRepo")
	return &serviceRepo{db: db, log: repoLog}
}

func (r *serviceRepo) Create(dbc dbctx.Context, svc *types.Service) error {
	if err := dbc.DB(r.db).Create(svc).Error; err != nil {
		return dberr.Map("create service", err)
	}
	return nil
}

func (r *serviceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Service, error) {
	var svc types.Service
	if err := dbc.DB(r.db).Where("id = ?", id).First(&svc).Error; err != nil {
		return nil, dberr.Map("get service", err)
	}
	return &svc, nil
}

func (r *serviceRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Service{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, dberr.Map("count service", err)
	}
	return n > 0, nil
}

// List returns services newest first, optionally filtered by owner.
func (r *serviceRepo) List(dbc dbctx.Context, userID *uuid.UUID) ([]*types.Service, error) {
	q := dbc.DB(r.db).Model(&types.Service{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	results := []*types.Service{}
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, dberr.Map("list services", err)
	}
	return results, nil
}

// Update applies only the given columns and always refreshes updated_at.
func (r *serviceRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.Service, error) {
	cols := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		cols[k] = v
	}
	cols["updated_at"] = time.Now().UTC()

	res := dbc.DB(r.db).Model(&types.Service{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, dberr.Map("update service", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, dberr.Map("update service", dberr.ErrNotFound)
	}
	return r.GetByID(dbc, id)
}

func (r *serviceRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Service{})
	if res.Error != nil {
		return dberr.Map("delete service", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("delete service", dberr.ErrNotFound)
	}
	return nil
}
