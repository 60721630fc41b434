// Package schemahistory persists every generated or refined schema version
// together with its lineage (root and parent records).
package schemahistory

import (
	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
)

// ScanLimit bounds how many recent records a history listing inspects.
const ScanLimit = 200

type Repo interface {
	Create(dbc dbctx.Context, rec *schema.Record) (*schema.Record, error)
	// GetByID returns errors.ErrNotFound when the record does not exist or
	// belongs to another owner.
	GetByID(dbc dbctx.Context, ownerID string, id uuid.UUID) (*schema.Record, error)
	// ListLatestPerRoot returns the newest record of each lineage, newest
	// first. limit <= 0 means no limit beyond ScanLimit.
	ListLatestPerRoot(dbc dbctx.Context, ownerID string, limit int) ([]*schema.Record, error)
	// ListLineage returns every record of one lineage by ascending version.
	ListLineage(dbc dbctx.Context, ownerID string, rootID uuid.UUID) ([]*schema.Record, error)
}

// latestPerRoot keeps the first record seen per root from a newest-first
// slice.
func latestPerRoot(recs []*schema.Record, limit int) []*schema.Record {
	seen := map[uuid.UUID]bool{}
	out := []*schema.Record{}
	for _, r := range recs {
		root := r.RootID
		if root == uuid.Nil {
			root = r.ID
		}
		if seen[root] {
			continue
		}
		seen[root] = true
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
