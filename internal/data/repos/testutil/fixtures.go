package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

// NewRecord builds an unsaved history record. With a parent it continues
// the parent's lineage one version up.
func NewRecord(tb testing.TB, ownerID, inputText string, parent *schema.Record, createdAt time.Time) *schema.Record {
	tb.Helper()
	res := &schema.Result{
		SchemaVersion: 1,
		Entities:      []string{"User"},
		Schema:        schema.Collections{"users": {"_id": schema.TypeObjectID, "name": schema.TypeString}},
		Source:        schema.SourceFallback,
	}
	rec, err := schema.NewRecord(ownerID, inputText, "balanced", res)
	if err != nil {
		tb.Fatalf("new record: %v", err)
	}
	rec.CreatedAt = createdAt.UTC()
	if parent != nil {
		parentID := parent.ID
		rec.ParentID = &parentID
		rec.RootID = parent.RootID
		rec.Version = parent.Version + 1
		rec.RefinementText = "refine " + uuid.NewString()[:8]
	}
	return rec
}
