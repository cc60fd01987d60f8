package styles

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WritingStyle shapes the tone of chat replies. At most one style per
// service has IsDefault set, and exactly one once any exist.
type WritingStyle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`

	Name        string  `gorm:"column:name;not null" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Tone        *string `gorm:"column:tone" json:"tone"`
	Guidelines  *string `gorm:"column:guidelines;type:text" json:"guidelines"`
	IsDefault   bool    `gorm:"column:is_default;not null;index" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WritingStyle) TableName() string { return "writing_styles" }

func (w *WritingStyle) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// PromptGuidelines renders the style as the instruction block sent with chat requests.
func (w *WritingStyle) PromptGuidelines() string {
	if w == nil {
		return ""
	}
	tone := "professional"
	if w.Tone != nil && strings.TrimSpace(*w.Tone) != "" {
		tone = strings.TrimSpace(*w.Tone)
	}
	out := "Tone: " + tone
	if w.Guidelines != nil && strings.TrimSpace(*w.Guidelines) != "" {
		out += "\n" + strings.TrimSpace(*w.Guidelines)
	}
	return out
}
