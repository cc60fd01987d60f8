package materials

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chunk is a retrievable slice of a source. Rows are written by the
// ingestion service, which also owns the embedding column.
type Chunk struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SourceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"source_id"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`

	Content      string         `gorm:"column:content;type:text;not null" json:"content"`
	ChunkIndex   int            `gorm:"column:chunk_index;not null" json:"chunk_index"`
	RowReference *string        `gorm:"column:row_reference" json:"row_reference"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chunk) TableName() string { return "chunks" }

func (c *Chunk) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if len(c.Metadata) == 0 {
		c.Metadata = datatypes.JSON([]byte("{}"))
	}
	return nil
}
