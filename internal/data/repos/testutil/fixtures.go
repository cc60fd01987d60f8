package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/ragdash-backend/internal/domain"
)

// Clock hands out strictly increasing timestamps so ordering assertions
// do not depend on wall-clock resolution.
type Clock struct {
	next time.Time
}

func NewClock() *Clock {
	return &Clock{next: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Next() time.Time {
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

func SeedService(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, at time.Time) *types.Service {
	tb.Helper()
	svc := &types.Service{
		ID:              uuid.New(),
		Name:            name,
		EmbeddingMethod: types.DefaultEmbeddingMethod,
		ChunkSize:       types.DefaultChunkSize,
		ChunkOverlap:    types.DefaultChunkOverlap,
		IsActive:        true,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	if err := tx.WithContext(ctx).Create(svc).Error; err != nil {
		tb.Fatalf("seed service: %v", err)
	}
	return svc
}

func SeedSource(tb testing.TB, ctx context.Context, tx *gorm.DB, serviceID uuid.UUID, name, status string, at time.Time) *types.Source {
	tb.Helper()
	id := uuid.New()
	src := &types.Source{
		ID:        id,
		ServiceID: serviceID,
		Name:      name,
		FileType:  types.FileTypeCSV,
		FilePath:  serviceID.String() + "/" + id.String() + "/" + name,
		FileSize:  42,
		Status:    status,
		Metadata:  datatypes.JSON([]byte("{}")),
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(src).Error; err != nil {
		tb.Fatalf("seed source: %v", err)
	}
	return src
}

func SeedChunk(tb testing.TB, ctx context.Context, tx *gorm.DB, serviceID, sourceID uuid.UUID, index int, content string) *types.Chunk {
	tb.Helper()
	now := time.Now().UTC()
	c := &types.Chunk{
		ID:         uuid.New(),
		ServiceID:  serviceID,
		SourceID:   sourceID,
		ChunkIndex: index,
		Content:    content,
		Metadata:   datatypes.JSON([]byte("{}")),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chunk: %v", err)
	}
	return c
}

func SeedChatMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, serviceID uuid.UUID, sessionID, role, content string, at time.Time) *types.ChatMessage {
	tb.Helper()
	m := &types.ChatMessage{
		ID:         uuid.New(),
		ServiceID:  serviceID,
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		ChunksUsed: datatypes.JSON([]byte("[]")),
		CreatedAt:  at,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed chat message: %v", err)
	}
	return m
}

func SeedFeedback(tb testing.TB, ctx context.Context, tx *gorm.DB, serviceID, messageID uuid.UUID, feedbackType string, at time.Time) *types.Feedback {
	tb.Helper()
	fb := &types.Feedback{
		ID:            uuid.New(),
		ServiceID:     serviceID,
		ChatMessageID: messageID,
		FeedbackType:  feedbackType,
		CreatedAt:     at,
	}
	if err := tx.WithContext(ctx).Create(fb).Error; err != nil {
		tb.Fatalf("seed feedback: %v", err)
	}
	return fb
}

func SeedStyle(tb testing.TB, ctx context.Context, tx *gorm.DB, serviceID uuid.UUID, name string, isDefault bool, at time.Time) *types.WritingStyle {
	tb.Helper()
	s := &types.WritingStyle{
		ID:        uuid.New(),
		ServiceID: serviceID,
		Name:      name,
		IsDefault: isDefault,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed writing style: %v", err)
	}
	return s
}

func PtrString(v string) *string { return &v }
