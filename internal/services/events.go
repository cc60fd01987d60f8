package services

import (
	"context"

	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/events"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

// publish is fire-and-forget. Failures are logged and counted.
func publish(ctx context.Context, log *logger.Logger, pub events.Publisher, ev events.Event) {
	if pub == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("event publish failed", "event", ev.Type, "service_id", ev.ServiceID, "source_id", ev.SourceID, "error", err)
		observability.Current().IncEventPublishFailed(ev.Type)
	}
}
