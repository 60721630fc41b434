package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mongoarchitect-backend/internal/data/db"
	"github.com/yungbote/mongoarchitect-backend/internal/data/repos"
	"github.com/yungbote/mongoarchitect-backend/internal/data/repos/schemahistory"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type Repos struct {
	SchemaHistory repos.SchemaHistoryRepo
}

// store is the opened history backend. SQL is nil for the mongo driver.
type store struct {
	repos Repos
	sql   *gorm.DB
	close func(context.Context) error
}

func openStore(ctx context.Context, cfg db.Config, log *logger.Logger) (*store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info("Opening schema history store...", "driver", cfg.Driver)

	if cfg.Driver == db.DriverMongo {
		mongoSvc, err := db.NewMongoService(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("init mongo: %w", err)
		}
		if err := schemahistory.EnsureIndexes(dbctx.Context{Ctx: ctx}, mongoSvc.Database()); err != nil {
			log.Warn("mongo index creation failed (continuing)", "error", err)
		}
		return &store{
			repos: Repos{SchemaHistory: repos.NewMongoSchemaHistoryRepo(mongoSvc.Database(), log)},
			close: mongoSvc.Close,
		}, nil
	}

	sqlSvc, err := db.NewSQLService(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.Driver, err)
	}
	return &store{
		repos: Repos{SchemaHistory: repos.NewSchemaHistoryRepo(sqlSvc.DB(), log)},
		sql:   sqlSvc.DB(),
		close: func(context.Context) error { return sqlSvc.Close() },
	}, nil
}
