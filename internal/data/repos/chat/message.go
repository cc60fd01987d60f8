package chat

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

type MessageRepo interface {
	Create(dbc dbctx.Context, msg *types.ChatMessage) error
	GetByID(dbc dbctx.Context, serviceID, id uuid.UUID) (*types.ChatMessage, error)
	GetByIDs(dbc dbctx.Context, serviceID uuid.UUID, ids []uuid.UUID) ([]*types.ChatMessage, error)
	ListBySession(dbc dbctx.Context, serviceID uuid.UUID, sessionID string) ([]*types.ChatMessage, error)
	// LatestUserMessageBefore returns nil, nil when no user message precedes before.
	LatestUserMessageBefore(dbc dbctx.Context, serviceID uuid.UUID, sessionID string, before time.Time) (*types.ChatMessage, error)
	CountByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
	CountSessions(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
	DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	repoLog := baseLog.With("repo", "ChatMessageRepo")
	return &messageRepo{db: db, log: repoLog}
}

func (r *messageRepo) Create(dbc dbctx.Context, msg *types.ChatMessage) error {
	if err := dbc.DB(r.db).Create(msg).Error; err != nil {
		return dberr.Map("create chat message", err)
	}
	return nil
}

func (r *messageRepo) GetByID(dbc dbctx.Context, serviceID, id uuid.UUID) (*types.ChatMessage, error) {
	var msg types.ChatMessage
	if err := dbc.DB(r.db).
		Where("id = ? AND service_id = ?", id, serviceID).
		First(&msg).Error; err != nil {
		return nil, dberr.Map("get chat message", err)
	}
	return &msg, nil
}

func (r *messageRepo) GetByIDs(dbc dbctx.Context, serviceID uuid.UUID, ids []uuid.UUID) ([]*types.ChatMessage, error) {
	results := []*types.ChatMessage{}
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("service_id = ? AND id IN ?", serviceID, ids).
		Find(&results).Error; err != nil {
		return nil, dberr.Map("get chat messages", err)
	}
	return results, nil
}

func (r *messageRepo) ListBySession(dbc dbctx.Context, serviceID uuid.UUID, sessionID string) ([]*types.ChatMessage, error) {
	results := []*types.ChatMessage{}
	if err := dbc.DB(r.db).
		Where("service_id = ? AND session_id = ?", serviceID, sessionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, dberr.Map("list chat messages", err)
	}
	return results, nil
}

func (r *messageRepo) LatestUserMessageBefore(dbc dbctx.Context, serviceID uuid.UUID, sessionID string, before time.Time) (*types.ChatMessage, error) {
	var msg types.ChatMessage
	err := dbc.DB(r.db).
		Where("service_id = ? AND session_id = ? AND role = ? AND created_at < ?", serviceID, sessionID, types.RoleUser, before).
		Order("created_at DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Map("latest user message", err)
	}
	return &msg, nil
}

func (r *messageRepo) CountByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.ChatMessage{}).Where("service_id = ?", serviceID).Count(&n).Error; err != nil {
		return 0, dberr.Map("count chat messages", err)
	}
	return n, nil
}

func (r *messageRepo) CountSessions(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.ChatMessage{}).
		Where("service_id = ?", serviceID).
		Distinct("session_id").
		Count(&n).Error; err != nil {
		return 0, dberr.Map("count chat sessions", err)
	}
	return n, nil
}

func (r *messageRepo) DeleteByService(dbc dbctx.Context, serviceID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("service_id = ?", serviceID).Delete(&types.ChatMessage{})
	if res.Error != nil {
		return 0, dberr.Map("delete chat messages by service", res.Error)
	}
	return res.RowsAffected, nil
}
