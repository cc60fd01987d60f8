package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/ragdash-backend/internal/clients/redis"
	"github.com/yungbote/ragdash-backend/internal/platform/events"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

type Clients struct {
	Store  objectstore.Store
	RAG    ragserver.Client
	Events events.Publisher
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Object storage
	store, err := resolveObjectStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init object storage: %w", err)
	}

	// RAG server
	ragCfg := cfg.RAGConfig()
	rag := ragserver.NewClient(log, ragCfg)
	log.Info("RAG server configured", "processing_url", ragCfg.ProcessingURL, "chat_url", ragCfg.ChatURL, "timeout", ragCfg.Timeout)

	// Redis
	pub := events.Noop()
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		bus, err := redis.NewEventBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
		pub = bus
	} else {
		log.Info("REDIS_ADDR not set, source events are dropped")
	}

	return Clients{Store: store, RAG: rag, Events: pub}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
