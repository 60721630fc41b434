package compare

import (
	"sort"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/diff"
)

type FieldDifference struct {
	ExtraFields   []string `json:"extraFields"`
	MissingFields []string `json:"missingFields"`
	CommonFields  []string `json:"commonFields"`
}

// Side describes one schema relative to the other.
type Side struct {
	OnlyCollections    []string                   `json:"onlyCollections"`
	MissingCollections []string                   `json:"missingCollections"`
	CommonCollections  []string                   `json:"commonCollections"`
	FieldDifferences   map[string]FieldDifference `json:"fieldDifferences"`
	OnlyRelationships  []string                   `json:"onlyRelationships"`
}

type RelationshipConflict struct {
	Label  string          `json:"label"`
	Model1 schema.Decision `json:"model1"`
	Model2 schema.Decision `json:"model2"`
}

type Summary struct {
	OnlyIn1               []string               `json:"onlyIn1"`
	OnlyIn2               []string               `json:"onlyIn2"`
	Common                []string               `json:"common"`
	SimilarityScore       float64                `json:"similarityScore"`
	Schema1Collections    int                    `json:"schema1_collection_count"`
	Schema2Collections    int                    `json:"schema2_collection_count"`
	RelationshipConflicts []RelationshipConflict `json:"relationshipConflicts"`
	Diff                  schema.Diff            `json:"diff"`
}

type Comparison struct {
	Model1  Side    `json:"model1"`
	Model2  Side    `json:"model2"`
	Summary Summary `json:"summary"`
}

// Detailed compares two results collection by collection, field by field and
// relationship by relationship. Either side may be nil.
func Detailed(left, right *schema.Result) Comparison {
	ls, rs := collectionsOf(left), collectionsOf(right)
	onlyLeft, onlyRight, common := split(keys(ls), keys(rs))

	one := Side{
		OnlyCollections:    onlyLeft,
		MissingCollections: onlyRight,
		CommonCollections:  common,
		FieldDifferences:   map[string]FieldDifference{},
	}
	two := Side{
		OnlyCollections:    onlyRight,
		MissingCollections: onlyLeft,
		CommonCollections:  common,
		FieldDifferences:   map[string]FieldDifference{},
	}
	for _, coll := range common {
		extra, missing, shared := split(keys(ls[coll]), keys(rs[coll]))
		if len(extra) == 0 && len(missing) == 0 {
			continue
		}
		one.FieldDifferences[coll] = FieldDifference{ExtraFields: extra, MissingFields: missing, CommonFields: shared}
		two.FieldDifferences[coll] = FieldDifference{ExtraFields: missing, MissingFields: extra, CommonFields: shared}
	}

	lr, rr := relationshipsOf(left), relationshipsOf(right)
	one.OnlyRelationships, two.OnlyRelationships, _ = split(keys(lr), keys(rr))
	conflicts := []RelationshipConflict{}
	for _, label := range keys(lr) {
		if d, ok := rr[label]; ok && d != lr[label] {
			conflicts = append(conflicts, RelationshipConflict{Label: label, Model1: lr[label], Model2: d})
		}
	}

	return Comparison{
		Model1: one,
		Model2: two,
		Summary: Summary{
			OnlyIn1:               onlyLeft,
			OnlyIn2:               onlyRight,
			Common:                common,
			SimilarityScore:       Similarity(ls, rs),
			Schema1Collections:    len(ls),
			Schema2Collections:    len(rs),
			RelationshipConflicts: conflicts,
			Diff:                  diff.Compute(ls, rs),
		},
	}
}

// Similarity is the Jaccard index of the collection names, as a percentage.
func Similarity(a, b schema.Collections) float64 {
	union := len(a)
	common := 0
	for name := range b {
		if _, ok := a[name]; ok {
			common++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union) * 100
}

func collectionsOf(r *schema.Result) schema.Collections {
	if r == nil || r.Schema == nil {
		return schema.Collections{}
	}
	return r.Schema
}

func relationshipsOf(r *schema.Result) map[string]schema.Decision {
	if r == nil || r.Relationships == nil {
		return map[string]schema.Decision{}
	}
	return r.Relationships
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// split partitions two sorted lists into a-only, b-only and shared items.
func split(a, b []string) (onlyA, onlyB, both []string) {
	onlyA, onlyB, both = []string{}, []string{}, []string{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			both = append(both, a[i])
			i++
			j++
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		default:
			onlyB = append(onlyB, b[j])
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return onlyA, onlyB, both
}
