package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/data/repos/testutil"
	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/apierr"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

const (
	normalizedDesign = `{"schema": {"students": {"name": "String"}, "classes": {"name": "String"},
		"enrollments": {"studentId": "ObjectId", "classId": "ObjectId"}}}`
	embeddedDesign = `{"schema": {"students": {"name": "String", "email": "String",
		"classes": [{"name": "String"}]}}}`
)

func providerClients(byProvider map[string]llm.Completer) ProviderClients {
	return func(provider string) (llm.Completer, error) {
		c, ok := byProvider[provider]
		if !ok {
			return nil, fmt.Errorf("%s: %w", provider, llm.ErrMissingAPIKey)
		}
		return c, nil
	}
}

func newCompareService(t *testing.T, clients ProviderClients, fallback llm.Completer) CompareService {
	t.Helper()
	log := testutil.Logger(t)
	return NewCompareService(log, schemaengine.New(nil, log, nil), clients, fallback, nil)
}

func TestCompareServiceRoutesModelsToProviders(t *testing.T) {
	anthropic := llm.Texts(normalizedDesign)
	openai := llm.Texts(embeddedDesign)
	svc := newCompareService(t, providerClients(map[string]llm.Completer{
		llm.ProviderAnthropic: anthropic,
		llm.ProviderOpenAI:    openai,
	}), nil)

	got, err := svc.Compare(context.Background(), schoolText, "", "claude", " GPT ")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if anthropic.Calls() != 1 || openai.Calls() != 1 {
		t.Fatalf("calls anthropic=%d openai=%d, want 1 each", anthropic.Calls(), openai.Calls())
	}
	if got.Model1.Model != "claude" || got.Model1.Provider != llm.ProviderAnthropic || got.Model2.Model != "gpt" {
		t.Fatalf("models=%+v / %+v", got.Model1, got.Model2)
	}
	for _, side := range []ModelSchema{got.Model1, got.Model2} {
		if side.Result.Source != schema.SourceGenerative || side.Result.AccessPattern != DefaultWorkload {
			t.Fatalf("%s source=%v workload=%q", side.Model, side.Result.Source, side.Result.AccessPattern)
		}
	}

	s := got.Comparison.Summary
	if !reflect.DeepEqual(s.OnlyIn1, []string{"classes", "enrollments"}) || !reflect.DeepEqual(s.Common, []string{"students"}) {
		t.Fatalf("summary=%+v", s)
	}
	if s.SimilarityScore < 33.3 || s.SimilarityScore > 33.4 {
		t.Fatalf("similarity=%v, want 33.3", s.SimilarityScore)
	}
	fd := got.Comparison.Model2.FieldDifferences["students"]
	if !reflect.DeepEqual(fd.ExtraFields, []string{"classes", "email"}) {
		t.Fatalf("model2 students=%+v", fd)
	}
}

func TestCompareServiceFallsBackToDefaultClient(t *testing.T) {
	fallback := llm.Texts(normalizedDesign, normalizedDesign)
	svc := newCompareService(t, providerClients(map[string]llm.Completer{}), fallback)

	got, err := svc.Compare(context.Background(), schoolText, "read-heavy", "gemini", "llama")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if fallback.Calls() != 2 {
		t.Fatalf("fallback calls=%d, want 2", fallback.Calls())
	}
	if got.Comparison.Summary.SimilarityScore != 100 {
		t.Fatalf("similarity=%v, want 100", got.Comparison.Summary.SimilarityScore)
	}
}

func TestCompareServiceFailedModelStillCompares(t *testing.T) {
	svc := newCompareService(t, providerClients(map[string]llm.Completer{
		llm.ProviderAnthropic: llm.NewScripted(llm.Reply{Err: errors.New("overloaded")}),
		llm.ProviderOpenAI:    llm.Texts(embeddedDesign),
	}), nil)

	got, err := svc.Compare(context.Background(), schoolText, "balanced", "claude", "gpt")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got.Model1.Result.Schema) != 0 || got.Model1.Result.Warnings[0] != "Comparison schema generation failed: overloaded" {
		t.Fatalf("model1=%+v", got.Model1.Result)
	}
	s := got.Comparison.Summary
	if s.SimilarityScore != 0 || s.Schema1Collections != 0 || !reflect.DeepEqual(s.OnlyIn2, []string{"students"}) {
		t.Fatalf("summary=%+v", s)
	}
}

func TestCompareServiceRejects(t *testing.T) {
	svc := newCompareService(t, nil, nil)
	cases := []struct {
		name           string
		text           string
		model1, model2 string
		code           string
	}{
		{"empty text", "  ", "claude", "gpt", "invalid_input"},
		{"unknown first", schoolText, "bard", "gpt", "invalid_model"},
		{"unknown second", schoolText, "claude", "", "invalid_model"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Compare(context.Background(), tc.text, "", tc.model1, tc.model2)
			ae, ok := apierr.From(err)
			if !ok || ae.Status != 400 || ae.Code != tc.code {
				t.Fatalf("err=%v, want 400 %s", err, tc.code)
			}
		})
	}
}

func TestCompareStoredVersions(t *testing.T) {
	schemas, dbc := newSchemaService(t)
	log := testutil.Logger(t)
	svc := NewCompareService(log, schemaengine.New(nil, log, nil), nil, nil, schemas)
	owner := newOwner()

	v1, err := schemas.Generate(dbc, owner, schoolText, "balanced")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	v2, err := schemas.Refine(dbc, owner, v1.ID, "Add collection named Reviews", "")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}

	got, err := svc.CompareStored(dbc, owner, v1.ID, v2.ID)
	if err != nil {
		t.Fatalf("CompareStored: %v", err)
	}
	if !reflect.DeepEqual(got.Comparison.Summary.OnlyIn2, []string{"reviews"}) || len(got.Comparison.Summary.OnlyIn1) != 0 {
		t.Fatalf("summary=%+v", got.Comparison.Summary)
	}
	if got.Left != v1.ID || got.Right != v2.ID {
		t.Fatalf("ids=%v,%v", got.Left, got.Right)
	}

	if _, err := svc.CompareStored(dbc, owner, v1.ID, uuid.New()); err == nil {
		t.Fatalf("CompareStored with unknown id err=nil")
	} else if ae, ok := apierr.From(err); !ok || ae.Status != 404 {
		t.Fatalf("err=%v, want 404", err)
	}
	if _, err := svc.CompareStored(dbc, newOwner(), v1.ID, v2.ID); err == nil {
		t.Fatalf("CompareStored across owners err=nil")
	}
}
