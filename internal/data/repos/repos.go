package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos/chat"
	"github.com/yungbote/ragdash-backend/internal/data/repos/materials"
	"github.com/yungbote/ragdash-backend/internal/data/repos/styles"
	"github.com/yungbote/ragdash-backend/internal/data/repos/tenancy"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type ServiceRepo = tenancy.ServiceRepo

type SourceRepo = materials.SourceRepo
type ChunkRepo = materials.ChunkRepo

type ChatMessageRepo = chat.MessageRepo
type FeedbackRepo = chat.FeedbackRepo

type WritingStyleRepo = styles.WritingStyleRepo

func NewServiceRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRepo {
	return tenancy.NewServiceRepo(db, baseLog)
}

func NewSourceRepo(db *gorm.DB, baseLog *logger.Logger) SourceRepo {
	return materials.NewSourceRepo(db, baseLog)
}
func NewChunkRepo(db *gorm.DB, baseLog *logger.Logger) ChunkRepo {
	return materials.NewChunkRepo(db, baseLog)
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return chat.NewMessageRepo(db, baseLog)
}
func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return chat.NewFeedbackRepo(db, baseLog)
}

func NewWritingStyleRepo(db *gorm.DB, baseLog *logger.Logger) WritingStyleRepo {
	return styles.NewWritingStyleRepo(db, baseLog)
}
