package schemahistory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/datatypes"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

// CollectionName is the MongoDB collection holding history records.
const CollectionName = "schemaHistory"

// historyDoc is the stored shape. The result is kept as a native document so
// it can be queried from the shell.
type historyDoc struct {
	ID             string    `bson:"_id"`
	OwnerID        string    `bson:"ownerId"`
	InputText      string    `bson:"inputText"`
	WorkloadType   string    `bson:"workloadType"`
	Result         bson.M    `bson:"result"`
	Version        int       `bson:"version"`
	ParentID       string    `bson:"parentId,omitempty"`
	RootID         string    `bson:"rootId"`
	RefinementText string    `bson:"refinementText,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func toDoc(rec *schema.Record) (*historyDoc, error) {
	d := &historyDoc{
		ID:             rec.ID.String(),
		OwnerID:        rec.OwnerID,
		InputText:      rec.InputText,
		WorkloadType:   rec.WorkloadType,
		Version:        rec.Version,
		RootID:         rec.RootID.String(),
		RefinementText: rec.RefinementText,
		CreatedAt:      rec.CreatedAt.UTC(),
	}
	if rec.ParentID != nil {
		d.ParentID = rec.ParentID.String()
	}
	if len(rec.Result) > 0 {
		if err := bson.UnmarshalExtJSON(rec.Result, false, &d.Result); err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}
	}
	return d, nil
}

func (d *historyDoc) record() (*schema.Record, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("record id %q: %w", d.ID, err)
	}
	rec := &schema.Record{
		ID:             id,
		OwnerID:        d.OwnerID,
		InputText:      d.InputText,
		WorkloadType:   d.WorkloadType,
		Version:        d.Version,
		RefinementText: d.RefinementText,
		CreatedAt:      d.CreatedAt.UTC(),
		RootID:         id,
	}
	if root, err := uuid.Parse(d.RootID); err == nil {
		rec.RootID = root
	}
	if d.ParentID != "" {
		if parent, err := uuid.Parse(d.ParentID); err == nil {
			rec.ParentID = &parent
		}
	}
	if d.Result != nil {
		raw, err := bson.MarshalExtJSON(d.Result, false, false)
		if err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		rec.Result = datatypes.JSON(raw)
	}
	return rec, nil
}

type mongoRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewMongoRepo(db *mongo.Database, baseLog *logger.Logger) Repo {
	repoLog := baseLog.With("repo", "SchemaHistoryRepo", "driver", "mongo")
	return &mongoRepo{coll: db.Collection(CollectionName), log: repoLog}
}

// EnsureIndexes creates the lookup indexes used by the history queries.
func EnsureIndexes(dbc dbctx.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateMany(dbc.Ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "rootId", Value: 1}, {Key: "version", Value: 1}}},
	})
	return err
}

func (r *mongoRepo) Create(dbc dbctx.Context, rec *schema.Record) (*schema.Record, error) {
	if rec.RootID == uuid.Nil {
		rec.RootID = rec.ID
	}
	doc, err := toDoc(rec)
	if err != nil {
		return nil, err
	}
	if _, err := r.coll.InsertOne(dbc.Ctx, doc); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *mongoRepo) GetByID(dbc dbctx.Context, ownerID string, id uuid.UUID) (*schema.Record, error) {
	var doc historyDoc
	err := r.coll.FindOne(dbc.Ctx, bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "ownerId", Value: ownerID},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.record()
}

func (r *mongoRepo) ListLatestPerRoot(dbc dbctx.Context, ownerID string, limit int) ([]*schema.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "version", Value: -1}}).
		SetLimit(ScanLimit)
	recs, err := r.find(dbc, bson.D{{Key: "ownerId", Value: ownerID}}, opts)
	if err != nil {
		return nil, err
	}
	return latestPerRoot(recs, limit), nil
}

func (r *mongoRepo) ListLineage(dbc dbctx.Context, ownerID string, rootID uuid.UUID) ([]*schema.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: 1}})
	return r.find(dbc, bson.D{
		{Key: "ownerId", Value: ownerID},
		{Key: "rootId", Value: rootID.String()},
	}, opts)
}

func (r *mongoRepo) find(dbc dbctx.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]*schema.Record, error) {
	cursor, err := r.coll.Find(dbc.Ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(dbc.Ctx)

	var docs []historyDoc
	if err := cursor.All(dbc.Ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*schema.Record, 0, len(docs))
	for i := range docs {
		rec, err := docs[i].record()
		if err != nil {
			r.log.Warn("skipping malformed history document", "id", docs[i].ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
