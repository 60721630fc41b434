package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Record{},
	)
}
