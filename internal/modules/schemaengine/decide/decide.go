// Package decide assigns embed/reference per relationship and derives the
// growth, cost, risk and sharding figures that go with it. Everything here is
// a pure function of its inputs.
package decide

import (
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

const (
	embedRiskPenalty     = 15
	referenceRiskPenalty = 5
	maxRiskScore         = 100
	maxPerformanceIndex  = 100
)

// Choice is one relationship decision. Slices of Choice keep relationship
// order stable where maps would not.
type Choice struct {
	Relation string
	Decision schema.Decision
}

type Outcome struct {
	Choices    []Choice
	Decisions  map[string]schema.Decision
	Growth     map[string]schema.Growth
	QueryCosts map[string]schema.QueryCost
}

// Cardinality classifies from the context text alone: the first hint group
// with a matching keyword wins, then "many"/"multiple", else one_to_many.
// relation is accepted for callers that classify per label but is unused.
func Cardinality(text, relation string) schema.Cardinality {
	lower := strings.ToLower(text)
	for _, hint := range vocab.Get().CardinalityHints {
		for _, term := range hint.Terms {
			if strings.Contains(lower, term) {
				return hint.Cardinality
			}
		}
	}
	if strings.Contains(lower, "many") || strings.Contains(lower, "multiple") {
		return schema.ManyToMany
	}
	return schema.OneToMany
}

func IsTemporal(relation string) bool {
	lower := strings.ToLower(relation)
	for _, kw := range vocab.Get().TemporalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func EstimateGrowth(relation string) schema.Growth {
	lower := strings.ToLower(relation)
	switch {
	case strings.Contains(lower, "history"):
		return schema.GrowthUnbounded
	case strings.Contains(lower, "many"):
		return schema.GrowthLargeArray
	default:
		return schema.GrowthBounded
	}
}

func QueryCostFor(d schema.Decision) schema.QueryCost {
	if d == schema.Embed {
		return schema.QueryCost{ReadCost: 1, WriteCost: 4, JoinCost: 0}
	}
	return schema.QueryCost{ReadCost: 3, WriteCost: 1, JoinCost: 2}
}

// Choose applies the priority order temporal, then small cardinality, then
// reference for everything else.
func Choose(text, relation string) schema.Decision {
	if IsTemporal(relation) {
		return schema.Reference
	}
	switch Cardinality(text, relation) {
	case schema.OneToOne, schema.OneToFew:
		return schema.Embed
	default:
		return schema.Reference
	}
}

// Decide evaluates every relationship against text. Duplicate labels keep
// their first position.
func Decide(text string, relationships []string) Outcome {
	out := Outcome{
		Decisions:  make(map[string]schema.Decision, len(relationships)),
		Growth:     make(map[string]schema.Growth, len(relationships)),
		QueryCosts: make(map[string]schema.QueryCost, len(relationships)),
	}
	for _, rel := range relationships {
		if _, dup := out.Decisions[rel]; dup {
			continue
		}
		d := Choose(text, rel)
		out.Choices = append(out.Choices, Choice{Relation: rel, Decision: d})
		out.Decisions[rel] = d
		out.Growth[rel] = EstimateGrowth(rel)
		out.QueryCosts[rel] = QueryCostFor(d)
	}
	return out
}

func (o Outcome) Risk() int { return FutureRiskScore(o.Decisions, o.Growth) }

func (o Outcome) Performance() int { return PerformanceIndex(o.QueryCosts) }

// Labels returns the sorted relationship labels of a decision map.
func Labels(decisions map[string]schema.Decision) []string {
	out := make([]string, 0, len(decisions))
	for rel := range decisions {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

// Sorted turns a decision map into choices ordered by relation label.
func Sorted(decisions map[string]schema.Decision) []Choice {
	out := make([]Choice, 0, len(decisions))
	for rel, d := range decisions {
		out = append(out, Choice{Relation: rel, Decision: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Relation < out[j].Relation })
	return out
}

// FutureRiskScore adds 15 per embedded relationship that can grow and 5 per
// reference, capped at 100.
func FutureRiskScore(decisions map[string]schema.Decision, growth map[string]schema.Growth) int {
	score := 0
	for rel, d := range decisions {
		switch {
		case d == schema.Embed && growth[rel] != schema.GrowthBounded:
			score += embedRiskPenalty
		case d == schema.Reference:
			score += referenceRiskPenalty
		}
	}
	if score > maxRiskScore {
		return maxRiskScore
	}
	return score
}

func PerformanceIndex(costs map[string]schema.QueryCost) int {
	total := 0
	for _, c := range costs {
		total += c.ReadCost + c.WriteCost + c.JoinCost
	}
	if total >= maxPerformanceIndex {
		return 0
	}
	return maxPerformanceIndex - total
}

func SuggestSharding(entities []string) []schema.ShardSuggestion {
	out := []schema.ShardSuggestion{}
	if contains(entities, "Order") {
		out = append(out, schema.ShardSuggestion{
			Collection: "orders",
			ShardKey:   "userId",
			Reason:     "High write throughput expected",
		})
	}
	if contains(entities, "Transaction") {
		out = append(out, schema.ShardSuggestion{
			Collection: "transactions",
			ShardKey:   "accountId",
			Reason:     "Time-series scaling",
		})
	}
	return out
}

func contains(items []string, v string) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}
