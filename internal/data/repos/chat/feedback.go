package chat

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/dberr"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(dbc dbctx.Context, fb *types.Feedback) error
	ListByService(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.Feedback, error)
	CountByType(dbc dbctx.Context, serviceID uuid.UUID) (map[string]int64, error)
	DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (r *feedbackRepo) Create(dbc dbctx.Context, fb *types.Feedback) error {
	if err := dbc.DB(r.db).Create(fb).Error; err != nil {
		return dberr.Map("create feedback", err)
	}
	return nil
}

// ListByService returns feedback newest first.
func (r *feedbackRepo) ListByService(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.Feedback, error) {
	results := []*types.Feedback{}
	if err := dbc.DB(r.db).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, dberr.Map("list feedback", err)
	}
	return results, nil
}

func (r *feedbackRepo) CountByType(dbc dbctx.Context, serviceID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		FeedbackType string
		N            int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Feedback{}).
		Select("feedback_type, COUNT(*) AS n").
		Where("service_id = ?", serviceID).
		Group("feedback_type").
		Scan(&rows).Error; err != nil {
		return nil, dberr.Map("count feedback", err)
	}
	out := map[string]int64{
		types.FeedbackLike:       0,
		types.FeedbackDislike:    0,
		types.FeedbackCorrection: 0,
	}
	for _, row := range rows {
		out[row.FeedbackType] = row.N
	}
	return out, nil
}

func (r *feedbackRepo) DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("service_id = ?", serviceID).Delete(&types.Feedback{})
	if res.Error != nil {
		return 0, dberr.Map("delete feedback by service", res.Error)
	}
	return res.RowsAffected, nil
}
