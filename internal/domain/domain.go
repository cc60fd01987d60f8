package domain

import (
	"github.com/yungbote/ragdash-backend/internal/domain/chat"
	"github.com/yungbote/ragdash-backend/internal/domain/materials"
	"github.com/yungbote/ragdash-backend/internal/domain/styles"
	"github.com/yungbote/ragdash-backend/internal/domain/tenancy"
)

const (
	DefaultEmbeddingMethod = tenancy.DefaultEmbeddingMethod
	DefaultChunkSize       = tenancy.DefaultChunkSize
	DefaultChunkOverlap    = tenancy.DefaultChunkOverlap

	SourceStatusPending    = materials.SourceStatusPending
	SourceStatusProcessing = materials.SourceStatusProcessing
	SourceStatusCompleted  = materials.SourceStatusCompleted
	SourceStatusFailed     = materials.SourceStatusFailed

	FileTypeCSV   = materials.FileTypeCSV
	FileTypeExcel = materials.FileTypeExcel

	RoleUser      = chat.RoleUser
	RoleAssistant = chat.RoleAssistant

	FeedbackLike       = chat.FeedbackLike
	FeedbackDislike    = chat.FeedbackDislike
	FeedbackCorrection = chat.FeedbackCorrection
)

type Service = tenancy.Service
type Source = materials.Source
type Chunk = materials.Chunk
type ChatMessage = chat.Message
type Feedback = chat.Feedback
type WritingStyle = styles.WritingStyle

var (
	IsSupportedEmbeddingMethod = tenancy.IsSupportedEmbeddingMethod
	IsValidSourceStatus        = materials.IsValidSourceStatus
	IsValidFeedbackType        = chat.IsValidFeedbackType
)

// AllModels lists every persisted type in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Service{},
		&Source{},
		&Chunk{},
		&ChatMessage{},
		&Feedback{},
		&WritingStyle{},
	}
}
