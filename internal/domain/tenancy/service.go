package tenancy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultEmbeddingMethod = "openai-text-embedding-3-small"
	DefaultChunkSize       = 500
	DefaultChunkOverlap    = 50
)

// SupportedEmbeddingMethods lists the values the ingestion service understands.
var SupportedEmbeddingMethods = []string{DefaultEmbeddingMethod}

func IsSupportedEmbeddingMethod(m string) bool {
	for _, s := range SupportedEmbeddingMethods {
		if s == m {
			return true
		}
	}
	return false
}

// Service is one chatbot. Every other record is scoped to a service.
type Service struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`

	Name            string  `gorm:"column:name;not null" json:"name"`
	Description     *string `gorm:"column:description;type:text" json:"description"`
	EmbeddingMethod string  `gorm:"column:embedding_method;not null" json:"embedding_method"`
	LLMProvider     *string `gorm:"column:llm_provider" json:"llm_provider"`
	LLMAPIKey       *string `gorm:"column:llm_api_key" json:"-"`
	HasLLMAPIKey    bool    `gorm:"-" json:"has_llm_api_key"`
	ChunkSize       int     `gorm:"column:chunk_size;not null" json:"chunk_size"`
	ChunkOverlap    int     `gorm:"column:chunk_overlap;not null" json:"chunk_overlap"`
	IsActive        bool    `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Service) TableName() string { return "services" }

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.EmbeddingMethod == "" {
		s.EmbeddingMethod = DefaultEmbeddingMethod
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = DefaultChunkOverlap
	}
	return nil
}

func (s *Service) AfterSave(tx *gorm.DB) error {
	s.HasLLMAPIKey = s.LLMAPIKey != nil && *s.LLMAPIKey != ""
	return nil
}

func (s *Service) AfterFind(tx *gorm.DB) error {
	s.HasLLMAPIKey = s.LLMAPIKey != nil && *s.LLMAPIKey != ""
	return nil
}
