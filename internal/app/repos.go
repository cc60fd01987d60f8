package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type Repos struct {
	Service      repos.ServiceRepo
	Source       repos.SourceRepo
	Chunk        repos.ChunkRepo
	ChatMessage  repos.ChatMessageRepo
	Feedback     repos.FeedbackRepo
	WritingStyle repos.WritingStyleRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Service:      repos.NewServiceRepo(db, log),
		Source:       repos.NewSourceRepo(db, log),
		Chunk:        repos.NewChunkRepo(db, log),
		ChatMessage:  repos.NewChatMessageRepo(db, log),
		Feedback:     repos.NewFeedbackRepo(db, log),
		WritingStyle: repos.NewWritingStyleRepo(db, log),
	}
}
