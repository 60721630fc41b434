package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

const schoolText = "A school with students, teachers and classes. Students enroll in classes."

func run(t *testing.T, args ...string) *schema.Result {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("LOG_MODE", "test")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	var res schema.Result
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("%v output is not a result: %v\n%s", args, err, out.String())
	}
	return &res
}

func TestGenerateAndRefineCommands(t *testing.T) {
	v1 := run(t, "generate", "--workload", "read-heavy", schoolText)
	if v1.Source != schema.SourceFallback || v1.SchemaVersion != 1 {
		t.Fatalf("generate: source=%v version=%d", v1.Source, v1.SchemaVersion)
	}
	if _, ok := v1.Schema["students"]; !ok {
		t.Fatalf("generate: schema=%v", v1.Schema)
	}

	raw, err := json.Marshal(v1)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "v1.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	v2 := run(t, "refine", "--schema", path, "Add collection named Reviews")
	if v2.SchemaVersion != 2 || v2.PreviousVersionID == nil || *v2.PreviousVersionID != v1.SchemaVersionID {
		t.Fatalf("refine: version=%d prev=%v", v2.SchemaVersion, v2.PreviousVersionID)
	}
	if _, ok := v2.Schema["reviews"]; !ok {
		t.Fatalf("refine: schema=%v", v2.Schema)
	}
}

func TestReadResultRejectsEmptySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"schema": {}}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := readResult(path); err == nil {
		t.Fatalf("readResult(empty schema) succeeded")
	}
}
