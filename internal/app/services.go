package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/session"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
	"github.com/yungbote/mongoarchitect-backend/internal/services"
)

type Services struct {
	Schemas services.SchemaService
	Agent   services.AgentService
	Compare services.CompareService
}

func wireServices(log *logger.Logger, engine *schemaengine.Engine, client llm.Client, clients services.ProviderClients, reposet Repos, sessions session.Store) Services {
	log.Info("Wiring services...")
	schemas := services.NewSchemaService(log, engine, reposet.SchemaHistory)
	return Services{
		Schemas: schemas,
		Agent:   services.NewAgentService(log, client, schemas, sessions),
		Compare: services.NewCompareService(log, engine, clients, client, schemas),
	}
}

// openSessions picks redis when configured, otherwise process memory.
func openSessions(cfg Config, log *logger.Logger) (session.Store, *goredis.Client, func(context.Context) error, error) {
	if cfg.RedisAddr == "" {
		log.Info("agent sessions kept in memory")
		return session.NewMemoryStore(), nil, nil, nil
	}
	rdb, err := session.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := session.NewRedisStore(rdb, cfg.SessionTTL, log)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, nil, fmt.Errorf("init session store: %w", err)
	}
	log.Info("agent sessions stored in redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return store, rdb, func(context.Context) error { return store.Close() }, nil
}
