package materials

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SourceStatusPending    = "pending"
	SourceStatusProcessing = "processing"
	SourceStatusCompleted  = "completed"
	SourceStatusFailed     = "failed"

	FileTypeCSV   = "csv"
	FileTypeExcel = "excel"
)

func IsValidSourceStatus(s string) bool {
	switch s {
	case SourceStatusPending, SourceStatusProcessing, SourceStatusCompleted, SourceStatusFailed:
		return true
	default:
		return false
	}
}

// Source is one uploaded file and its ingestion state.
type Source struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`

	Name         string         `gorm:"column:name;not null" json:"name"`
	FileType     string         `gorm:"column:file_type;not null" json:"file_type"`
	FilePath     string         `gorm:"column:file_path;not null;uniqueIndex" json:"file_path"`
	FileSize     int64          `gorm:"column:file_size" json:"file_size"`
	Status       string         `gorm:"column:status;not null;index" json:"status"`
	ErrorMessage *string        `gorm:"column:error_message;type:text" json:"error_message"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Source) TableName() string { return "sources" }

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SourceStatusPending
	}
	if len(s.Metadata) == 0 {
		s.Metadata = datatypes.JSON([]byte("{}"))
	}
	return nil
}
