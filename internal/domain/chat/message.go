package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat session. ChunksUsed holds the ids of the
// chunks retrieved for an assistant reply.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`
	SessionID string    `gorm:"column:session_id;not null;index" json:"session_id"`

	Role        string         `gorm:"column:role;not null" json:"role"`
	Content     string         `gorm:"column:content;type:text;not null" json:"content"`
	PromptUsed  *string        `gorm:"column:prompt_used;type:text" json:"prompt_used"`
	ContextUsed *string        `gorm:"column:context_used;type:text" json:"context_used"`
	ChunksUsed  datatypes.JSON `gorm:"column:chunks_used;type:jsonb" json:"chunks_used"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string { return "chat_history" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if len(m.ChunksUsed) == 0 {
		m.ChunksUsed = datatypes.JSON([]byte("[]"))
	}
	return nil
}
