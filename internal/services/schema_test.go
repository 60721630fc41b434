package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/apierr"
)

func TestSchemaServiceGenerateAndRefine(t *testing.T) {
	svc, dbc := newSchemaService(t)
	owner := newOwner()

	v1, err := svc.Generate(dbc, owner, "  "+schoolText+"  ", "read-heavy")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if v1.Version != 1 || v1.RootID != v1.ID || v1.ParentID != nil {
		t.Fatalf("v1 lineage: version=%d root=%v id=%v parent=%v", v1.Version, v1.RootID, v1.ID, v1.ParentID)
	}
	if v1.InputText != schoolText || v1.WorkloadType != "read-heavy" {
		t.Fatalf("v1 input=%q workload=%q", v1.InputText, v1.WorkloadType)
	}
	res1, err := v1.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res1.Source != schema.SourceFallback || res1.SchemaVersion != 1 {
		t.Fatalf("v1 source=%v schemaVersion=%d", res1.Source, res1.SchemaVersion)
	}

	v2, err := svc.Refine(dbc, owner, v1.ID, "Add collection named Reviews", "")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if v2.Version != 2 || v2.RootID != v1.ID || v2.ParentID == nil || *v2.ParentID != v1.ID {
		t.Fatalf("v2 lineage: version=%d root=%v parent=%v", v2.Version, v2.RootID, v2.ParentID)
	}
	if want := schoolText + "\nRefinement: Add collection named Reviews"; v2.InputText != want {
		t.Fatalf("v2 input=%q, want %q", v2.InputText, want)
	}
	if v2.WorkloadType != "read-heavy" || v2.RefinementText != "Add collection named Reviews" {
		t.Fatalf("v2 workload=%q refinement=%q", v2.WorkloadType, v2.RefinementText)
	}
	res2, err := v2.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := res2.Schema["reviews"]; !ok {
		t.Fatalf("v2 schema missing reviews: %v", res2.Schema)
	}
	if res2.SchemaVersion != 2 || res2.PreviousVersionID == nil || *res2.PreviousVersionID != res1.SchemaVersionID {
		t.Fatalf("v2 version chain: %d prev=%v want prev %q", res2.SchemaVersion, res2.PreviousVersionID, res1.SchemaVersionID)
	}

	lineage, err := svc.Lineage(dbc, owner, v2.ID)
	if err != nil {
		t.Fatalf("Lineage: %v", err)
	}
	if len(lineage) != 2 || lineage[0].ID != v1.ID || lineage[1].ID != v2.ID {
		t.Fatalf("Lineage=%d records", len(lineage))
	}

	history, err := svc.History(dbc, owner, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].ID != v2.ID {
		t.Fatalf("History=%d records, want latest v2", len(history))
	}
}

func TestSchemaServiceDefaultsWorkload(t *testing.T) {
	svc, dbc := newSchemaService(t)
	rec, err := svc.Generate(dbc, newOwner(), schoolText, " ")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.WorkloadType != DefaultWorkload {
		t.Fatalf("workload=%q, want %q", rec.WorkloadType, DefaultWorkload)
	}
}

func TestSchemaServiceErrors(t *testing.T) {
	svc, dbc := newSchemaService(t)
	owner := newOwner()
	rec, err := svc.Generate(dbc, owner, schoolText, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	cases := []struct {
		name   string
		call   func() error
		status int
	}{
		{"empty input", func() error { _, err := svc.Generate(dbc, owner, "   ", ""); return err }, 400},
		{"empty refinement", func() error { _, err := svc.Refine(dbc, owner, rec.ID, "", ""); return err }, 400},
		{"other owner get", func() error { _, err := svc.Get(dbc, "someone-else", rec.ID); return err }, 404},
		{"other owner refine", func() error { _, err := svc.Refine(dbc, "someone-else", rec.ID, "add reviews", ""); return err }, 404},
		{"unknown id", func() error { _, err := svc.Get(dbc, owner, uuid.New()); return err }, 404},
		{"nil id lineage", func() error { _, err := svc.Lineage(dbc, owner, uuid.Nil); return err }, 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			ae, ok := apierr.From(err)
			if !ok {
				t.Fatalf("err=%v, want *apierr.Error", err)
			}
			if ae.Status != tc.status {
				t.Fatalf("status=%d, want %d", ae.Status, tc.status)
			}
		})
	}

	if _, err := svc.Get(dbc, owner, rec.ID); err != nil {
		t.Fatalf("Get(owner): %v", err)
	}
	if got := strings.TrimSpace(rec.InputText); got != schoolText {
		t.Fatalf("input=%q", got)
	}
}
