package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackLike       = "like"
	FeedbackDislike    = "dislike"
	FeedbackCorrection = "correction"
)

func IsValidFeedbackType(t string) bool {
	switch t {
	case FeedbackLike, FeedbackDislike, FeedbackCorrection:
		return true
	default:
		return false
	}
}

type Feedback struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatMessageID uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_message_id"`
	ServiceID     uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`

	FeedbackType      string  `gorm:"column:feedback_type;not null" json:"feedback_type"`
	CorrectionMessage *string `gorm:"column:correction_message;type:text" json:"correction_message"`
	ExpectedResponse  *string `gorm:"column:expected_response;type:text" json:"expected_response"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
