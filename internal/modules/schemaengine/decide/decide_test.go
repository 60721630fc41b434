package decide

import (
	"reflect"
	"testing"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

func TestCardinality(t *testing.T) {
	tests := []struct {
		text string
		want schema.Cardinality
	}{
		{"user profile settings", schema.OneToOne},
		{"each user has an address", schema.OneToFew},
		{"customers place an order", schema.OneToMany},
		{"posts carry a tag", schema.ManyToMany},
		{"authors write many books", schema.ManyToMany},
		{"multiple authors", schema.ManyToMany},
		{"authors write books", schema.OneToMany},
		// first group wins even when a later hint also appears
		{"profile for each student", schema.OneToOne},
	}
	for _, tc := range tests {
		if got := Cardinality(tc.text, "A has B"); got != tc.want {
			t.Fatalf("Cardinality(%q)=%v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestIsTemporalAndGrowth(t *testing.T) {
	if !IsTemporal("User has Audit") {
		t.Fatalf("IsTemporal(User has Audit)=false, want true")
	}
	if IsTemporal("User has Profile") {
		t.Fatalf("IsTemporal(User has Profile)=true, want false")
	}
	tests := map[string]schema.Growth{
		"User has History":   schema.GrowthUnbounded,
		"User has many Tags": schema.GrowthLargeArray,
		"User has Profile":   schema.GrowthBounded,
	}
	for rel, want := range tests {
		if got := EstimateGrowth(rel); got != want {
			t.Fatalf("EstimateGrowth(%q)=%v, want %v", rel, got, want)
		}
	}
}

func TestDecideSchoolScenario(t *testing.T) {
	text := "A school with students, teachers and classes. Students enroll in classes."
	out := Decide(text, []string{"Student enrolls in Class", "Teacher teaches Class"})
	if got := out.Decisions["Student enrolls in Class"]; got != schema.Reference {
		t.Fatalf("decision=%v, want reference", got)
	}
	if len(out.Choices) != 2 || out.Choices[0].Relation != "Student enrolls in Class" {
		t.Fatalf("Choices=%v, want input order", out.Choices)
	}
	if got := out.QueryCosts["Teacher teaches Class"]; got != QueryCostFor(schema.Reference) {
		t.Fatalf("cost=%v, want reference cost", got)
	}
}

func TestDecideTemporalBeatsCardinality(t *testing.T) {
	out := Decide("user profile", []string{"User has Profile", "User has Activity"})
	if out.Decisions["User has Profile"] != schema.Embed {
		t.Fatalf("User has Profile=%v, want embed", out.Decisions["User has Profile"])
	}
	if out.Decisions["User has Activity"] != schema.Reference {
		t.Fatalf("User has Activity=%v, want reference", out.Decisions["User has Activity"])
	}
}

func TestDecideIsPure(t *testing.T) {
	text := "customers with an address and many orders"
	rels := []string{"Customer has Address", "Customer places Order", "Customer has Address"}
	a, b := Decide(text, rels), Decide(text, rels)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Decide is not deterministic: %#v vs %#v", a, b)
	}
	if len(a.Choices) != 2 {
		t.Fatalf("Choices=%v, want duplicates collapsed", a.Choices)
	}
}

func TestScores(t *testing.T) {
	decisions := map[string]schema.Decision{
		"A has History": schema.Embed,
		"A has B":       schema.Embed,
		"A has C":       schema.Reference,
	}
	growth := map[string]schema.Growth{
		"A has History": schema.GrowthUnbounded,
		"A has B":       schema.GrowthBounded,
		"A has C":       schema.GrowthBounded,
	}
	if got := FutureRiskScore(decisions, growth); got != 20 {
		t.Fatalf("FutureRiskScore=%d, want 20", got)
	}

	many := map[string]schema.Decision{}
	manyGrowth := map[string]schema.Growth{}
	for _, r := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		many[r] = schema.Embed
		manyGrowth[r] = schema.GrowthLargeArray
	}
	if got := FutureRiskScore(many, manyGrowth); got != 100 {
		t.Fatalf("FutureRiskScore=%d, want capped 100", got)
	}

	costs := map[string]schema.QueryCost{"x": QueryCostFor(schema.Embed), "y": QueryCostFor(schema.Reference)}
	if got := PerformanceIndex(costs); got != 89 {
		t.Fatalf("PerformanceIndex=%d, want 89", got)
	}
	big := map[string]schema.QueryCost{}
	for i := 0; i < 20; i++ {
		big[string(rune('a'+i))] = QueryCostFor(schema.Reference)
	}
	if got := PerformanceIndex(big); got != 0 {
		t.Fatalf("PerformanceIndex=%d, want 0", got)
	}
}

func TestSuggestSharding(t *testing.T) {
	got := SuggestSharding([]string{"Customer", "Order", "Transaction"})
	want := []schema.ShardSuggestion{
		{Collection: "orders", ShardKey: "userId", Reason: "High write throughput expected"},
		{Collection: "transactions", ShardKey: "accountId", Reason: "Time-series scaling"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SuggestSharding=%v, want %v", got, want)
	}
	if got := SuggestSharding([]string{"User"}); len(got) != 0 {
		t.Fatalf("SuggestSharding(User)=%v, want empty", got)
	}
}
