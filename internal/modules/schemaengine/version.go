package schemaengine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

// Version is the lineage metadata stamped on every result.
type Version struct {
	Number     int
	ID         string
	PreviousID *string
	CreatedAt  time.Time
}

// NewVersion returns version 1 for a new design, or the successor of prev.
func NewVersion(prev *schema.Result) Version {
	return nextVersion(prev, time.Now().UTC(), uuid.NewString())
}

func nextVersion(prev *schema.Result, now time.Time, id string) Version {
	v := Version{Number: 1, ID: id, CreatedAt: now}
	if prev == nil {
		return v
	}
	v.Number = prev.SchemaVersion + 1
	if prevID := strings.TrimSpace(prev.SchemaVersionID); prevID != "" {
		v.PreviousID = &prevID
	}
	return v
}

func (v Version) Apply(r *schema.Result) {
	r.SchemaVersion = v.Number
	r.SchemaVersionID = v.ID
	r.PreviousVersionID = v.PreviousID
	r.CreatedAt = v.CreatedAt
}
