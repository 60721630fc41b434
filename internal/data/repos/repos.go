package repos

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"github.com/yungbote/mongoarchitect-backend/internal/data/repos/schemahistory"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type SchemaHistoryRepo = schemahistory.Repo

func NewSchemaHistoryRepo(db *gorm.DB, baseLog *logger.Logger) SchemaHistoryRepo {
	return schemahistory.NewGormRepo(db, baseLog)
}

func NewMongoSchemaHistoryRepo(db *mongo.Database, baseLog *logger.Logger) SchemaHistoryRepo {
	return schemahistory.NewMongoRepo(db, baseLog)
}
