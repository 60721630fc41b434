package schemahistory

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type gormRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	repoLog := baseLog.With("repo", "SchemaHistoryRepo", "driver", "gorm")
	return &gormRepo{db: db, log: repoLog}
}

func (r *gormRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *gormRepo) Create(dbc dbctx.Context, rec *schema.Record) (*schema.Record, error) {
	if rec.RootID == uuid.Nil {
		rec.RootID = rec.ID
	}
	if err := r.tx(dbc).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *gormRepo) GetByID(dbc dbctx.Context, ownerID string, id uuid.UUID) (*schema.Record, error) {
	var rec schema.Record
	err := r.tx(dbc).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepo) ListLatestPerRoot(dbc dbctx.Context, ownerID string, limit int) ([]*schema.Record, error) {
	var recs []*schema.Record
	if err := r.tx(dbc).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("version DESC").
		Limit(ScanLimit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return latestPerRoot(recs, limit), nil
}

func (r *gormRepo) ListLineage(dbc dbctx.Context, ownerID string, rootID uuid.UUID) ([]*schema.Record, error) {
	var recs []*schema.Record
	if err := r.tx(dbc).
		Where("owner_id = ? AND root_id = ?", ownerID, rootID).
		Order("version ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
