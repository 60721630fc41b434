package synth

import (
	"reflect"
	"testing"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/decide"
)

func TestBuildSeedsTemplates(t *testing.T) {
	got := Build([]string{"Student", "Widget"}, nil)
	students, ok := got["students"]
	if !ok {
		t.Fatalf("Build missing students: %v", got)
	}
	for _, f := range []string{"_id", "firstName", "lastName", "email", "gradeLevel", "enrollmentDate"} {
		if _, ok := students[f]; !ok {
			t.Fatalf("students missing %q: %v", f, students)
		}
	}
	want := map[string]any{"_id": "ObjectId", "name": "string", "createdAt": "string"}
	if !reflect.DeepEqual(got["widgets"], want) {
		t.Fatalf("widgets=%v, want %v", got["widgets"], want)
	}
}

func TestApplyRelationVerbs(t *testing.T) {
	tests := []struct {
		relation string
		decision schema.Decision
		coll     string
		field    string
		want     any
	}{
		{"Student enrolls in Class", schema.Reference, "students", "classIds", []any{"ObjectId"}},
		{"Student enrolls in Class", schema.Embed, "students", "classes", []any{map[string]any{"_id": "ObjectId"}}},
		{"Exam belongs to Subject", schema.Reference, "exams", "subjectId", "ObjectId"},
		{"Exam belongs to Subject", schema.Embed, "exams", "subject", map[string]any{"_id": "ObjectId"}},
		{"Teacher teaches Class", schema.Reference, "classes", "teacherId", "ObjectId"},
		{"Teacher teaches Class", schema.Embed, "teachers", "classes", []any{map[string]any{"_id": "ObjectId"}}},
	}
	for _, tc := range tests {
		c := Build([]string{"Student", "Class", "Exam", "Subject", "Teacher"}, nil)
		ApplyRelation(c, tc.relation, tc.decision)
		if got := c[tc.coll][tc.field]; !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ApplyRelation(%q, %s) %s.%s=%v, want %v", tc.relation, tc.decision, tc.coll, tc.field, got, tc.want)
		}
	}
}

func TestApplyRelationIgnoresMissingCollections(t *testing.T) {
	c := Build([]string{"Student"}, nil)
	before := c.Clone()
	ApplyRelation(c, "Student enrolls in Class", schema.Reference)
	ApplyRelation(c, "Student", schema.Reference)
	if !reflect.DeepEqual(c, before) {
		t.Fatalf("ApplyRelation mutated schema: %v", c)
	}
}

func TestBuildSpecialCases(t *testing.T) {
	c := Build([]string{"User", "Order", "Product"}, []decide.Choice{
		{Relation: "User places Order", Decision: schema.Reference},
		{Relation: "Order contains Product", Decision: schema.Embed},
	})
	if c["orders"]["userId"] != "ObjectId" {
		t.Fatalf("orders.userId=%v, want ObjectId", c["orders"]["userId"])
	}
	items, ok := c["orders"]["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("orders.items=%v, want one embedded line item", c["orders"]["items"])
	}

	// Missing users collection must not panic.
	c = Build([]string{"Order"}, []decide.Choice{{Relation: "User places Order", Decision: schema.Embed}})
	if _, ok := c["users"]; ok {
		t.Fatalf("Build created users implicitly: %v", c)
	}
}

func TestArtifacts(t *testing.T) {
	decisions := map[string]schema.Decision{
		"Student enrolls in Class": schema.Reference,
		"User has Profile":         schema.Embed,
	}
	if got := Confidence(decisions); got["Student enrolls in Class"] != 82 || got["User has Profile"] != 76 {
		t.Fatalf("Confidence=%v", got)
	}
	if got := WhyNot(decisions); got["User has Profile"] != "Referencing would increase read latency and require extra lookups." {
		t.Fatalf("WhyNot=%v", got)
	}
	if got := Explanations(decisions); got["Student enrolls in Class"] != "Referencing keeps documents small and avoids large array growth." {
		t.Fatalf("Explanations=%v", got)
	}
	got := Indexes(decide.Sorted(decisions))
	want := []schema.IndexSpec{{Collection: "classes", Fields: []string{"studentId"}, Reason: "Supports lookups for Student enrolls in Class"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Indexes=%v, want %v", got, want)
	}
}

func TestWarnings(t *testing.T) {
	embed := map[string]schema.Decision{"A has B": schema.Embed}
	got := Warnings("keep many audit history entries", embed)
	if len(got) != 3 {
		t.Fatalf("Warnings=%v, want 3", got)
	}
	ref := map[string]schema.Decision{"A has B": schema.Reference}
	if got := Warnings("keep many audit history entries", ref); len(got) != 0 {
		t.Fatalf("Warnings=%v, want none without embeds", got)
	}
}

func TestEnsureCollection(t *testing.T) {
	c := schema.Collections{"posts": {"_id": "ObjectId"}}
	if coll, created := EnsureCollection(c, "Posts"); coll != "posts" || created {
		t.Fatalf("EnsureCollection(Posts)=(%q,%v), want existing posts", coll, created)
	}
	coll, created := EnsureCollection(c, "Reviews")
	if coll != "reviews" || !created {
		t.Fatalf("EnsureCollection(Reviews)=(%q,%v), want new reviews", coll, created)
	}
	if !reflect.DeepEqual(c["reviews"], map[string]any{"_id": "ObjectId"}) {
		t.Fatalf("reviews=%v, want identity only", c["reviews"])
	}
	coll, _ = EnsureCollection(c, "the book")
	if _, ok := c[coll]["isbn"]; coll != "books" || !ok {
		t.Fatalf("EnsureCollection(the book)=%q %v, want books from template", coll, c[coll])
	}
}
