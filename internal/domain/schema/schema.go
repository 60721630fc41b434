package schema

import (
	"strings"
	"time"
)

// Field type tags produced by normalization.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeBoolean  = "boolean"
	TypeObject   = "object"
	TypeArray    = "array"
	TypeObjectID = "ObjectId"

	IdentityField = "_id"
)

type Decision string

const (
	Embed     Decision = "embed"
	Reference Decision = "reference"
)

// ParseDecision sniffs an embed/reference keyword out of a free-text value.
// Embed wins when both appear.
func ParseDecision(v any) (Decision, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	lowered := strings.ToLower(s)
	switch {
	case strings.Contains(lowered, "embed"):
		return Embed, true
	case strings.Contains(lowered, "reference"):
		return Reference, true
	default:
		return "", false
	}
}

type Growth string

const (
	GrowthBounded    Growth = "bounded"
	GrowthLargeArray Growth = "large_array"
	GrowthUnbounded  Growth = "unbounded"
)

type Cardinality string

const (
	OneToOne   Cardinality = "one_to_one"
	OneToFew   Cardinality = "one_to_few"
	OneToMany  Cardinality = "one_to_many"
	ManyToMany Cardinality = "many_to_many"
)

type Source string

const (
	SourceGenerative Source = "generative"
	SourceFallback   Source = "fallback"
)

// Collections maps collection name to its field mapping. Field values are a
// type tag (string), a nested object (map[string]any) or an array ([]any).
type Collections map[string]map[string]any

type QueryCost struct {
	ReadCost  int `json:"read_cost"`
	WriteCost int `json:"write_cost"`
	JoinCost  int `json:"join_cost"`
}

type ShardSuggestion struct {
	Collection string `json:"collection"`
	ShardKey   string `json:"shardKey"`
	Reason     string `json:"reason"`
}

type IndexSpec struct {
	Collection string   `json:"collection"`
	Fields     []string `json:"fields"`
	Unique     bool     `json:"unique,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

type Metrics struct {
	Collections int `json:"collections"`
	Fields      int `json:"fields"`
	Depth       int `json:"depth"`
}

type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed,omitempty"`
}

func (d Diff) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 }

// Result is the schema artifact returned by generation and refinement.
// A Result is never mutated after it is returned; refinement builds a new one.
type Result struct {
	SchemaVersion     int       `json:"schemaVersion"`
	SchemaVersionID   string    `json:"schemaVersionId"`
	PreviousVersionID *string   `json:"previousVersionId"`
	CreatedAt         time.Time `json:"createdAt"`
	RefinementSummary string    `json:"refinementSummary,omitempty"`

	Entities          []string              `json:"entities"`
	Relationships     map[string]Decision   `json:"relationships"`
	Attributes        map[string][]string   `json:"attributes"`
	Decisions         map[string]string     `json:"decisions"`
	WhyNot            map[string]string     `json:"whyNot"`
	Confidence        map[string]int        `json:"confidence"`
	FutureRiskScore   int                   `json:"futureRiskScore"`
	PerformanceIndex  int                   `json:"performanceIndex"`
	QueryCostAnalysis map[string]QueryCost  `json:"queryCostAnalysis"`
	GrowthRiskMap     map[string]Growth     `json:"growthRiskMap"`
	AutoSharding      []ShardSuggestion     `json:"autoSharding"`
	Schema            Collections           `json:"schema"`
	Indexes           []IndexSpec           `json:"indexes"`
	Warnings          []string              `json:"warnings"`
	Explanations      map[string]string     `json:"explanations"`
	AccessPattern     string                `json:"accessPattern"`
	Metrics           *Metrics              `json:"metrics,omitempty"`
	Diff              *Diff                 `json:"diff,omitempty"`

	Source             Source `json:"source"`
	GenerationAttempts int    `json:"generationAttempts"`
}
