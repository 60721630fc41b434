package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

const mongoConnectTimeout = 10 * time.Second

type MongoService struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

func NewMongoService(ctx context.Context, cfg Config, logg *logger.Logger) (*MongoService, error) {
	serviceLog := logg.With("service", "MongoService", "database", cfg.MongoDatabase)

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(mongoConnectTimeout).
		SetAppName("mongoarchitect"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	serviceLog.Info("mongo store ready")
	return &MongoService{client: client, db: client.Database(cfg.MongoDatabase), log: serviceLog}, nil
}

func (s *MongoService) Database() *mongo.Database { return s.db }

func (s *MongoService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
