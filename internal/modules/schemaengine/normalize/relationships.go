package normalize

import (
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
)

type RelationshipsKind int

const (
	RelAbsent RelationshipsKind = iota
	RelMapping
	RelList
)

// RelationshipsInput is the shape a relationship set arrived in.
type RelationshipsInput struct {
	Kind    RelationshipsKind
	Mapping map[string]any
	List    []string
}

// ClassifyRelationships tags a decoded value. Non-string list items are
// dropped; any other shape is Absent.
func ClassifyRelationships(v any) RelationshipsInput {
	switch t := v.(type) {
	case map[string]any:
		return RelationshipsInput{Kind: RelMapping, Mapping: t}
	case map[string]schema.Decision:
		m := make(map[string]any, len(t))
		for k, d := range t {
			m[k] = string(d)
		}
		return RelationshipsInput{Kind: RelMapping, Mapping: m}
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return RelationshipsInput{Kind: RelMapping, Mapping: m}
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return RelationshipsInput{Kind: RelList, List: list}
	case []string:
		return RelationshipsInput{Kind: RelList, List: append([]string(nil), t...)}
	default:
		return RelationshipsInput{Kind: RelAbsent}
	}
}

// ExtractNested pulls relationship data out of a generative response. A
// mapping nested under decisions.relationships takes precedence and is removed
// from decisions; a list of "a -> b" chains becomes a mapping keyed "a to b".
func ExtractNested(relationships any, decisions map[string]any) RelationshipsInput {
	if nested, ok := decisions["relationships"].(map[string]any); ok {
		delete(decisions, "relationships")
		return RelationshipsInput{Kind: RelMapping, Mapping: nested}
	}
	in := ClassifyRelationships(relationships)
	if in.Kind != RelList {
		return in
	}
	chained := map[string]any{}
	for _, rel := range in.List {
		parts := strings.Split(rel, " -> ")
		if len(parts) < 2 {
			continue
		}
		chained[strings.Join(parts[:2], " to ")] = rel
	}
	if len(chained) == 0 {
		return in
	}
	return RelationshipsInput{Kind: RelMapping, Mapping: chained}
}

var relationTokens = []string{
	"->", " has ", " belongs ", " contains ", " includes ", " enrolls ", " borrows ",
	" takes ", " pays ", " receives ", " teaches ", " owns ", " uses ", " places ", " converts ",
}

// LooksLikeRelation reports whether a label reads like "A verb B".
func LooksLikeRelation(label string) bool {
	lowered := strings.ToLower(label)
	for _, tok := range relationTokens {
		if strings.Contains(lowered, tok) {
			return true
		}
	}
	return false
}

// Relationships resolves every label to exactly embed or reference. When the
// input and decisions yield nothing, relationships are derived from foreign
// key fields in collections.
func Relationships(in RelationshipsInput, decisions map[string]any, collections schema.Collections) map[string]schema.Decision {
	out := map[string]schema.Decision{}
	resolve := func(label string, value any) schema.Decision {
		if d, ok := schema.ParseDecision(value); ok {
			return d
		}
		if d, ok := schema.ParseDecision(decisions[label]); ok {
			return d
		}
		return schema.Reference
	}

	switch in.Kind {
	case RelMapping:
		for label, value := range in.Mapping {
			out[label] = resolve(label, value)
		}
	case RelList:
		for _, label := range in.List {
			out[label] = resolve(label, nil)
		}
	case RelAbsent:
	}

	if len(out) == 0 {
		for label, value := range decisions {
			if !LooksLikeRelation(label) {
				continue
			}
			if d, ok := schema.ParseDecision(value); ok {
				out[label] = d
			}
		}
	}
	if len(out) == 0 {
		for label, d := range Structural(collections) {
			out[label] = d
		}
	}
	return out
}

// Structural derives reference relationships from "<base>Id", "<base>_id" and
// "<base>Ids" fields.
func Structural(collections schema.Collections) map[string]schema.Decision {
	out := map[string]schema.Decision{}
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for field := range collections[name] {
			if field == schema.IdentityField {
				continue
			}
			switch {
			case strings.HasSuffix(field, "Ids") && len(field) > 3:
				base := strings.ToLower(strings.TrimSuffix(field, "Ids"))
				out[name+" has many "+textutil.Pluralize(base)] = schema.Reference
			case strings.HasSuffix(field, "_id") && len(field) > 3:
				base := strings.ToLower(strings.TrimSuffix(field, "_id"))
				out[name+" references "+textutil.Pluralize(base)] = schema.Reference
			case strings.HasSuffix(field, "Id") && len(field) > 2:
				base := strings.ToLower(strings.TrimSuffix(field, "Id"))
				out[name+" references "+textutil.Pluralize(base)] = schema.Reference
			}
		}
	}
	return out
}
