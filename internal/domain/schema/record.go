package schema

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Record is one persisted version in a refinement chain. RootID is the id of
// the chain's first record; ParentID is nil for the root.
type Record struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        string         `gorm:"column:owner_id;not null;index" json:"ownerId"`
	InputText      string         `gorm:"column:input_text;not null" json:"inputText"`
	WorkloadType   string         `gorm:"column:workload_type;not null" json:"workloadType"`
	Result         datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	Version        int            `gorm:"column:version;not null;default:1" json:"version"`
	ParentID       *uuid.UUID     `gorm:"type:uuid;column:parent_id;index" json:"parentId,omitempty"`
	RootID         uuid.UUID      `gorm:"type:uuid;column:root_id;not null;index" json:"rootId"`
	RefinementText string         `gorm:"column:refinement_text" json:"refinementText,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"createdAt"`
}

func (Record) TableName() string { return "schema_history" }

// NewRecord wraps a result for persistence.
func NewRecord(ownerID, inputText, workloadType string, res *Result) (*Record, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	return &Record{
		ID:           id,
		OwnerID:      ownerID,
		InputText:    inputText,
		WorkloadType: workloadType,
		Result:       datatypes.JSON(raw),
		Version:      1,
		RootID:       id,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Decode returns the stored result.
func (r *Record) Decode() (*Result, error) {
	var res Result
	if len(r.Result) == 0 {
		return &res, nil
	}
	if err := json.Unmarshal(r.Result, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
