package synth

import (
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/decide"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

const (
	referenceConfidence = 82
	embedConfidence     = 76
)

func Attributes(entities []string) map[string][]string {
	t := vocab.Get()
	out := make(map[string][]string, len(entities))
	for _, e := range entities {
		out[e] = t.Attributes(e)
	}
	return out
}

// Indexes proposes a lookup index on the foreign key of every referenced
// relationship.
func Indexes(choices []decide.Choice) []schema.IndexSpec {
	out := []schema.IndexSpec{}
	seen := map[string]bool{}
	for _, c := range choices {
		if c.Decision != schema.Reference {
			continue
		}
		left, _, right, ok := SplitRelation(c.Relation)
		if !ok {
			continue
		}
		coll := textutil.CollectionName(right)
		field := strings.ToLower(left) + "Id"
		if seen[coll+"."+field] {
			continue
		}
		seen[coll+"."+field] = true
		out = append(out, schema.IndexSpec{
			Collection: coll,
			Fields:     []string{field},
			Reason:     "Supports lookups for " + c.Relation,
		})
	}
	return out
}

func Warnings(text string, decisions map[string]schema.Decision) []string {
	out := []string{}
	anyEmbed := false
	for _, d := range decisions {
		if d == schema.Embed {
			anyEmbed = true
			break
		}
	}
	if !anyEmbed {
		return out
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "history") {
		out = append(out, "Embedded history arrays may grow unbounded.")
	}
	if strings.Contains(lower, "many") {
		out = append(out, "Embedding many-to-one data can increase document size and update cost.")
	}
	if strings.Contains(lower, "audit") {
		out = append(out, "Audit logs should usually be referenced to avoid rapid growth.")
	}
	return out
}

func Explanations(decisions map[string]schema.Decision) map[string]string {
	out := make(map[string]string, len(decisions))
	for rel, d := range decisions {
		if d == schema.Reference {
			out[rel] = "Referencing keeps documents small and avoids large array growth."
		} else {
			out[rel] = "Embedding supports fast reads for tightly-coupled data."
		}
	}
	return out
}

func WhyNot(decisions map[string]schema.Decision) map[string]string {
	out := make(map[string]string, len(decisions))
	for rel, d := range decisions {
		if d == schema.Reference {
			out[rel] = "Embedding risks unbounded document growth and update fan-out."
		} else {
			out[rel] = "Referencing would increase read latency and require extra lookups."
		}
	}
	return out
}

func Confidence(decisions map[string]schema.Decision) map[string]int {
	out := make(map[string]int, len(decisions))
	for rel, d := range decisions {
		if d == schema.Reference {
			out[rel] = referenceConfidence
		} else {
			out[rel] = embedConfidence
		}
	}
	return out
}

// DecisionText renders relationship decisions into the free-text decisions
// map of a Result.
func DecisionText(decisions map[string]schema.Decision) map[string]string {
	out := make(map[string]string, len(decisions))
	for rel, d := range decisions {
		out[rel] = string(d)
	}
	return out
}

// AttributesFromSchema lists the non-identity fields of every collection,
// keyed by entity name.
func AttributesFromSchema(c schema.Collections) map[string][]string {
	out := make(map[string][]string, len(c))
	for coll, fields := range c {
		names := make([]string, 0, len(fields))
		for f := range fields {
			if f != schema.IdentityField {
				names = append(names, f)
			}
		}
		sort.Strings(names)
		out[EntityName(coll)] = names
	}
	return out
}
