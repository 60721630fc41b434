package refine

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/candidate"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/diff"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

const shopReply = `Here you go:
{
  "schema": {
    "users": {"_id": "ObjectId", "name": "string", "email": "string"},
    "orders": {"_id": "ObjectId", "total": "number", "userId": "ObjectId"}
  },
  "entities": ["User", "Order"],
  "decisions": {"User places Order": "reference"},
  "refinementSummary": "Added reviews"
}`

func states(ss []State) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.String()
	}
	return out
}

func TestRunGenerativeForcesRequestedCollection(t *testing.T) {
	c := llm.Texts(shopReply)
	run := New(c, nil, nil).Run(context.Background(), shopResult(), "Add collection named Reviews", "")

	if want := []string{"start", "llm_attempt", "validate_ok", "done"}; !reflect.DeepEqual(states(run.States), want) {
		t.Fatalf("states=%v, want %v", states(run.States), want)
	}
	res := run.Result
	if res.Source != schema.SourceGenerative || res.GenerationAttempts != 1 || c.Calls() != 1 {
		t.Fatalf("source=%v attempts=%d calls=%d", res.Source, res.GenerationAttempts, c.Calls())
	}
	if !reflect.DeepEqual(res.Schema["reviews"], map[string]any{"_id": schema.TypeObjectID}) {
		t.Fatalf("reviews=%v, want identity only", res.Schema["reviews"])
	}
	if res.Decisions["reviews"] != SeparateCollectionRationale {
		t.Fatalf("decisions=%v", res.Decisions)
	}
	if !strings.HasPrefix(res.RefinementSummary, "Updated schema: collections 2 -> 3") ||
		!strings.Contains(res.RefinementSummary, "Added collections: reviews.") {
		t.Fatalf("summary=%q", res.RefinementSummary)
	}
	if res.Diff == nil || !reflect.DeepEqual(res.Diff.Added, []string{"reviews", "reviews._id"}) {
		t.Fatalf("diff=%+v", res.Diff)
	}
	if res.Metrics == nil || res.Metrics.Collections != 3 {
		t.Fatalf("metrics=%+v", res.Metrics)
	}
	if res.Relationships["User places Order"] != schema.Reference {
		t.Fatalf("relationships=%v", res.Relationships)
	}
}

func TestRunGenerativeKeepsValidSummary(t *testing.T) {
	reply := `{"schema": {"users": {"_id": "ObjectId", "name": "string", "email": "string", "phone": "string"},
		"orders": {"_id": "ObjectId", "total": "number", "userId": "ObjectId"}},
		"refinementSummary": "Added a phone string field to users for contact lookups."}`
	res := New(llm.Texts(reply), nil, nil).Apply(context.Background(), shopResult(), "add phone to users", "")
	if res.RefinementSummary != "Added a phone string field to users for contact lookups." {
		t.Fatalf("summary=%q", res.RefinementSummary)
	}
	if !reflect.DeepEqual(res.Entities, []string{"orders", "users"}) {
		t.Fatalf("entities=%v, want schema keys", res.Entities)
	}
	if !reflect.DeepEqual(res.Attributes["User"], []string{"email", "name", "phone"}) {
		t.Fatalf("attributes=%v", res.Attributes)
	}
}

func TestRunStrictRetry(t *testing.T) {
	c := llm.Texts(`{"entities": ["User"]}`, shopReply)
	run := New(c, nil, nil).Run(context.Background(), shopResult(), "tidy up", "")
	if c.Calls() != 2 || run.Attempts != 2 {
		t.Fatalf("calls=%d attempts=%d, want 2", c.Calls(), run.Attempts)
	}
	if want := []string{"start", "llm_attempt", "validate_retry", "validate_ok", "done"}; !reflect.DeepEqual(states(run.States), want) {
		t.Fatalf("states=%v, want %v", states(run.States), want)
	}
	prompts := c.Prompts()
	if prompts[0] == prompts[1] {
		t.Fatalf("retry reused the first prompt")
	}
	if run.Result.Source != schema.SourceGenerative {
		t.Fatalf("source=%v", run.Result.Source)
	}
}

func TestRunFallsBackAfterTwoMissingSchemas(t *testing.T) {
	c := llm.Texts(`{"entities": []}`, `{"note": "still nothing"}`, shopReply)
	run := New(c, nil, nil).Run(context.Background(), shopResult(), "Add field phone to users", "")
	if c.Calls() != 2 {
		t.Fatalf("calls=%d, want 2", c.Calls())
	}
	if !errors.Is(run.Err, candidate.ErrMissingSchema) {
		t.Fatalf("err=%v, want missing schema", run.Err)
	}
	res := run.Result
	if res.Source != schema.SourceFallback {
		t.Fatalf("source=%v", res.Source)
	}
	if res.Schema["users"]["phone"] != schema.TypeString {
		t.Fatalf("users=%v, want phone added by rules", res.Schema["users"])
	}
}

func TestRunFallbackOnError(t *testing.T) {
	boom := errors.New("upstream 503")
	prev := shopResult()
	prev.Warnings = []string{"old warning"}
	run := New(llm.NewScripted(llm.Reply{Err: boom}), nil, nil).Run(context.Background(), prev,
		"Add field phone to users. Remove field email from users. Rename collection orders to purchases.", "read-heavy")

	if want := []string{"start", "llm_attempt", "llm_failed", "deterministic_fallback", "done"}; !reflect.DeepEqual(states(run.States), want) {
		t.Fatalf("states=%v, want %v", states(run.States), want)
	}
	if want := []string{"add-field", "remove-field", "rename-collection"}; !reflect.DeepEqual(run.Commands, want) {
		t.Fatalf("commands=%v, want %v", run.Commands, want)
	}
	res := run.Result
	if len(res.Warnings) < 2 || res.Warnings[0] != fallbackWarningPrefix+"upstream 503" || res.Warnings[1] != "old warning" {
		t.Fatalf("warnings=%v", res.Warnings)
	}
	if _, ok := res.Schema["purchases"]; !ok {
		t.Fatalf("schema=%v, want purchases", res.Schema)
	}
	if res.Relationships["User places Purchase"] != schema.Reference {
		t.Fatalf("relationships=%v", res.Relationships)
	}
	if !strings.HasPrefix(res.Explanations["refinement"], "Refinement request: Add field phone") {
		t.Fatalf("explanations=%v", res.Explanations)
	}
	if !strings.HasPrefix(res.RefinementSummary, "Updated schema:") {
		t.Fatalf("summary=%q", res.RefinementSummary)
	}
	if res.AccessPattern != "read-heavy" {
		t.Fatalf("access pattern=%q", res.AccessPattern)
	}
	if prev.Schema["orders"] == nil || prev.Schema["users"]["email"] == nil {
		t.Fatalf("previous result mutated: %v", prev.Schema)
	}
}

func TestRunWithoutGenerativeService(t *testing.T) {
	run := New(nil, nil, nil).Run(context.Background(), shopResult(), "make it faster", "")
	if !errors.Is(run.Err, llm.ErrDisabled) || run.Attempts != 0 {
		t.Fatalf("err=%v attempts=%d", run.Err, run.Attempts)
	}
	res := run.Result
	if !diff.Equal(res.Schema, shopResult().Schema) {
		t.Fatalf("schema changed: %v", res.Schema)
	}
	if !res.Diff.Empty() {
		t.Fatalf("diff=%+v, want empty", res.Diff)
	}
	if !strings.HasPrefix(res.RefinementSummary, "No schema changes made") {
		t.Fatalf("summary=%q", res.RefinementSummary)
	}
}

func TestRunGenerativeEmbed(t *testing.T) {
	reply := `{"schema": {
		"orders": {"_id": "ObjectId", "total": "number", "productId": "ObjectId"},
		"products": {"_id": "ObjectId", "name": "string", "price": "number"}},
		"entities": ["Order", "Product"]}`
	res := New(llm.Texts(reply), nil, nil).Apply(context.Background(), nil, "embed products in orders", "")
	if _, ok := res.Schema["products"]; ok {
		t.Fatalf("products kept as a collection: %v", res.Schema)
	}
	if _, ok := res.Schema["orders"]["products"].([]any); !ok {
		t.Fatalf("orders=%v, want embedded products array", res.Schema["orders"])
	}
	if res.Relationships["Order has Product"] != schema.Embed {
		t.Fatalf("relationships=%v", res.Relationships)
	}
	if !reflect.DeepEqual(res.Entities, []string{"Order"}) {
		t.Fatalf("entities=%v", res.Entities)
	}
}

func blogResult() *schema.Result {
	return &schema.Result{
		Entities: []string{"User", "Post", "Comment"},
		Schema: schema.Collections{
			"users":    {"_id": schema.TypeObjectID, "name": schema.TypeString},
			"posts":    {"_id": schema.TypeObjectID, "title": schema.TypeString, "userId": schema.TypeObjectID},
			"comments": {"_id": schema.TypeObjectID, "body": schema.TypeString, "postId": schema.TypeObjectID},
		},
		Relationships: map[string]schema.Decision{"User has Post": schema.Reference, "Post has Comment": schema.Reference},
	}
}

func TestFallbackCompoundRequests(t *testing.T) {
	cases := []struct {
		text        string
		wantColls   []string
		embedded    string
		embeddedKey string
	}{
		{"embed Comments in Posts and add tags", []string{"posts", "tags", "users"}, "posts", "comments"},
		{"add tags and embed comments in posts", []string{"posts", "tags", "users"}, "posts", "comments"},
		{"Embed comments in posts, add field avatar to users", []string{"posts", "users"}, "posts", "comments"},
	}
	for _, tc := range cases {
		res := New(nil, nil, nil).Apply(context.Background(), blogResult(), tc.text, "")
		var got []string
		for coll := range res.Schema {
			got = append(got, coll)
		}
		sort.Strings(got)
		if !reflect.DeepEqual(got, tc.wantColls) {
			t.Fatalf("%q: collections=%v, want %v", tc.text, got, tc.wantColls)
		}
		if _, ok := res.Schema[tc.embedded][tc.embeddedKey].([]any); !ok {
			t.Fatalf("%q: %s=%v, want embedded %s", tc.text, tc.embedded, res.Schema[tc.embedded], tc.embeddedKey)
		}
		if res.Relationships["Post has Comment"] != schema.Embed {
			t.Fatalf("%q: relationships=%v", tc.text, res.Relationships)
		}
	}
}
