package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/platform/neo4jdb"
	"github.com/yungbote/lingualeap-backend/internal/realtime/bus"
)

type Clients struct {
	Redis  *goredis.Client
	Events bus.Bus
	Neo4j  *neo4jdb.Client
}

// wireClients connects the optional backends. Without REDIS_ADDR events stay in process;
// without NEO4J_URI the graph projection is skipped.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rdb, err := bus.NewRedisClient(cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		events, err := bus.NewRedisBusWithClient(log, rdb, cfg.Redis.Channel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		out.Redis = rdb
		out.Events = events
	} else {
		log.Info("REDIS_ADDR not set, using in-process event bus")
		out.Events = bus.NewMemoryBus()
	}

	client, err := neo4jdb.New(log, cfg.Neo4j)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	if client == nil {
		log.Info("NEO4J_URI not set, lesson graph projection disabled")
	}
	out.Neo4j = client

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Neo4j != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Neo4j.Close(ctx)
	}
}
