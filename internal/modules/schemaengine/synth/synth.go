// Package synth turns entities and relationship decisions into a document
// schema plus the companion artifacts of the rule-based path.
package synth

import (
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/decide"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

var (
	possessionVerbs   = []string{"has", "contains", "includes", "enrolls", "borrows", "takes", "pays", "receives"}
	subordinationVerb = []string{"belongs", "assigned", "reports", "guardians"}
)

func identityOnly() map[string]any {
	return map[string]any{schema.IdentityField: schema.TypeObjectID}
}

// Build creates one collection per entity seeded from its attribute template
// and then applies each decision in order.
func Build(entities []string, choices []decide.Choice) schema.Collections {
	t := vocab.Get()
	out := schema.Collections{}
	for _, entity := range entities {
		fields := identityOnly()
		for _, f := range t.Attributes(entity) {
			fields[f] = schema.TypeString
		}
		out[textutil.CollectionName(entity)] = fields
	}
	for _, c := range choices {
		if applySpecialCase(out, c.Relation, c.Decision) {
			continue
		}
		ApplyRelation(out, c.Relation, c.Decision)
	}
	return out
}

// applySpecialCase handles the order relations that carry a richer shape
// than the generic verbs produce.
func applySpecialCase(c schema.Collections, relation string, d schema.Decision) bool {
	switch relation {
	case "User places Order":
		if d == schema.Embed {
			if users, ok := c["users"]; ok {
				users["orders"] = []any{map[string]any{
					schema.IdentityField: schema.TypeObjectID,
					"total":              schema.TypeNumber,
					"status":             schema.TypeString,
					"createdAt":          schema.TypeDate,
				}}
			}
		} else if orders, ok := c["orders"]; ok {
			orders["userId"] = schema.TypeObjectID
		}
		return true
	case "Order contains Product":
		orders, ok := c["orders"]
		if !ok {
			return true
		}
		if d == schema.Embed {
			orders["items"] = []any{map[string]any{
				"productId": schema.TypeObjectID,
				"quantity":  schema.TypeNumber,
				"price":     schema.TypeNumber,
			}}
		} else {
			orders["productIds"] = []any{schema.TypeObjectID}
		}
		return true
	}
	return false
}

// ApplyRelation mutates c for a "Left verb Right" label. Labels with fewer
// than three words, or whose collections are missing, are ignored.
func ApplyRelation(c schema.Collections, relation string, d schema.Decision) {
	left, verb, right, ok := SplitRelation(relation)
	if !ok {
		return
	}
	leftColl, rightColl := textutil.CollectionName(left), textutil.CollectionName(right)
	lf, lok := c[leftColl]
	rf, rok := c[rightColl]
	if !lok || !rok {
		return
	}
	rightLower := strings.ToLower(right)
	rightPlural := textutil.Pluralize(rightLower)

	switch {
	case verbHasAny(verb, possessionVerbs):
		if d == schema.Embed {
			lf[rightPlural] = []any{identityOnly()}
		} else {
			lf[rightLower+"Ids"] = []any{schema.TypeObjectID}
		}
	case verbHasAny(verb, subordinationVerb):
		if d == schema.Embed {
			lf[rightLower] = identityOnly()
		} else {
			lf[rightLower+"Id"] = schema.TypeObjectID
		}
	default:
		if d == schema.Embed {
			lf[rightPlural] = []any{identityOnly()}
		} else {
			rf[strings.ToLower(left)+"Id"] = schema.TypeObjectID
		}
	}
}

// SplitRelation splits a label into its first word, middle verb phrase
// (lowercased) and last word.
func SplitRelation(relation string) (left, verb, right string, ok bool) {
	parts := strings.Fields(relation)
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0], strings.ToLower(strings.Join(parts[1:len(parts)-1], " ")), parts[len(parts)-1], true
}

func verbHasAny(verb string, words []string) bool {
	for _, w := range words {
		if strings.Contains(verb, w) {
			return true
		}
	}
	return false
}
