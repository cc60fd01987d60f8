package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type FeedbackInput struct {
	ChatMessageID     uuid.UUID
	FeedbackType      string
	CorrectionMessage *string
	ExpectedResponse  *string
}

type FeedbackMessage struct {
	Content   string `json:"content"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
}

// EnrichedFeedback is a feedback row joined with the assistant turn it rates
// and the user question that preceded it.
type EnrichedFeedback struct {
	*types.Feedback
	ChatMessage *FeedbackMessage `json:"chat_message"`
	BotResponse *string          `json:"bot_response"`
	UserMessage *string          `json:"user_message"`
}

type FeedbackService interface {
	Record(dbc dbctx.Context, serviceID uuid.UUID, in FeedbackInput) (*types.Feedback, error)
	List(dbc dbctx.Context, serviceID uuid.UUID) ([]*EnrichedFeedback, error)
}

type feedbackService struct {
	log         *logger.Logger
	concurrency int
	messages    repos.ChatMessageRepo
	feedback    repos.FeedbackRepo
}

// NewFeedbackService builds the recorder. concurrency bounds the enrichment
// lookups; values below 1 mean 1.
func NewFeedbackService(baseLog *logger.Logger, concurrency int, messages repos.ChatMessageRepo, feedback repos.FeedbackRepo) FeedbackService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &feedbackService{
		log:         baseLog.With("service", "FeedbackService"),
		concurrency: concurrency,
		messages:    messages,
		feedback:    feedback,
	}
}

func (s *feedbackService) Record(dbc dbctx.Context, serviceID uuid.UUID, in FeedbackInput) (*types.Feedback, error) {
	ft := strings.TrimSpace(in.FeedbackType)
	if in.ChatMessageID == uuid.Nil || ft == "" {
		return nil, invalid("feedback_fields_required", "chatMessageId and feedbackType are required")
	}
	if !types.IsValidFeedbackType(ft) {
		return nil, invalid("invalid_feedback_type", "feedbackType must be one of like, dislike, correction")
	}
	if _, err := s.messages.GetByID(dbc, serviceID, in.ChatMessageID); err != nil {
		return nil, fromRepo("get chat message", err, "chat_message_not_found", msgMessageNotFound)
	}

	fb := &types.Feedback{
		ChatMessageID:     in.ChatMessageID,
		ServiceID:         serviceID,
		FeedbackType:      ft,
		CorrectionMessage: nilIfEmpty(in.CorrectionMessage),
		ExpectedResponse:  nilIfEmpty(in.ExpectedResponse),
	}
	if err := s.feedback.Create(dbc, fb); err != nil {
		return nil, fromRepo("create feedback", err, "chat_message_not_found", msgMessageNotFound)
	}
	s.log.Info("feedback recorded", "service_id", serviceID, "chat_message_id", in.ChatMessageID, "feedback_type", ft)
	return fb, nil
}

func (s *feedbackService) List(dbc dbctx.Context, serviceID uuid.UUID) ([]*EnrichedFeedback, error) {
	rows, err := s.feedback.ListByService(dbc, serviceID)
	if err != nil {
		return nil, internal("list feedback", err)
	}
	out := make([]*EnrichedFeedback, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, fb := range rows {
		if !seen[fb.ChatMessageID] {
			seen[fb.ChatMessageID] = true
			ids = append(ids, fb.ChatMessageID)
		}
	}
	msgs, err := s.messages.GetByIDs(dbc, serviceID, ids)
	if err != nil {
		return nil, internal("load feedback messages", err)
	}
	byID := make(map[uuid.UUID]*types.ChatMessage, len(msgs))
	for _, m := range msgs {
		byID[m.ID] = m
	}

	// One lookup per rated message, shared by every feedback row on it.
	var (
		mu       sync.Mutex
		previous = map[uuid.UUID]*string{}
	)
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	limit := s.concurrency
	if dbc.Tx != nil {
		// A transaction is bound to one connection.
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, m := range msgs {
		m := m
		if strings.TrimSpace(m.SessionID) == "" {
			continue
		}
		g.Go(func() error {
			prev, err := s.messages.LatestUserMessageBefore(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, serviceID, m.SessionID, m.CreatedAt)
			if err != nil {
				return err
			}
			if prev != nil {
				content := prev.Content
				mu.Lock()
				previous[m.ID] = &content
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, internal("enrich feedback", err)
	}

	for i, fb := range rows {
		item := &EnrichedFeedback{Feedback: fb}
		if m := byID[fb.ChatMessageID]; m != nil {
			content := m.Content
			item.ChatMessage = &FeedbackMessage{Content: m.Content, Role: m.Role, SessionID: m.SessionID}
			item.BotResponse = &content
			item.UserMessage = previous[m.ID]
		}
		out[i] = item
	}
	return out, nil
}
