package refine

import (
	"strings"
	"testing"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/diff"
)

func TestValidateSummary(t *testing.T) {
	const req = "add a reviews collection for products"
	cases := []struct {
		summary any
		changed bool
		want    bool
	}{
		{"Added a reviews collection referencing products by productId.", true, true},
		{"Short.", true, false},
		{42, true, false},
		{nil, false, false},
		{"Applied refinement to add the reviews collection for products.", true, false},
		{"Implemented the requested changes to the schema as asked.", true, false},
		{"add a reviews collection for products", true, false},
		{"No schema changes made - request requires application code.", true, false},
		{"No schema changes made - request requires application code.", false, true},
		{"Cannot implement change streams inside a schema definition.", false, true},
		{"Added a reviews collection referencing products by productId.", false, false},
	}
	for _, tc := range cases {
		if got := ValidateSummary(tc.summary, req, tc.changed); got != tc.want {
			t.Fatalf("ValidateSummary(%v, changed=%v)=%v, want %v", tc.summary, tc.changed, got, tc.want)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	prev := schema.Collections{"users": {"_id": schema.TypeObjectID, "name": schema.TypeString}}
	next := schema.Collections{
		"users":   {"_id": schema.TypeObjectID, "name": schema.TypeString},
		"reviews": {"_id": schema.TypeObjectID},
	}
	got := BuildSummary("add reviews", prev, next, diff.Measure(prev), diff.Measure(next), true)
	if !strings.HasPrefix(got, "Updated schema: collections 1 -> 2, total fields 3 -> 5, max depth 2 -> 2.") {
		t.Fatalf("BuildSummary=%q", got)
	}
	if !strings.Contains(got, "Added collections: reviews.") || !strings.Contains(got, "Added paths: reviews, reviews._id.") {
		t.Fatalf("BuildSummary=%q, want added collections and paths", got)
	}

	same := BuildSummary("use change streams to sync updates", prev, prev, diff.Measure(prev), diff.Measure(prev), false)
	want := "No schema changes made - request requires application code implementation. Total fields remain 3 and collections remain 1."
	if same != want {
		t.Fatalf("BuildSummary(unchanged)=%q, want %q", same, want)
	}
	if !ValidateSummary(same, "use change streams", false) {
		t.Fatalf("generated unchanged summary fails validation: %q", same)
	}
}

func TestBuildSummaryRetype(t *testing.T) {
	prev := schema.Collections{"users": {"_id": schema.TypeObjectID, "age": schema.TypeString}}
	next := schema.Collections{"users": {"_id": schema.TypeObjectID, "age": schema.TypeNumber}}
	got := BuildSummary("make age a number", prev, next, diff.Measure(prev), diff.Measure(next), true)
	if !strings.Contains(got, "Changed paths: users.age.") {
		t.Fatalf("BuildSummary=%q, want changed path", got)
	}
}
