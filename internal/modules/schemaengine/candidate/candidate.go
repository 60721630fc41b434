// Package candidate reads the loosely shaped JSON object a generative
// service returns for a schema request. Every accessor tolerates missing or
// mistyped keys.
package candidate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/normalize"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/jsonx"
)

var ErrMissingSchema = errors.New("response missing schema")

const fullConfidence = 95

type Candidate map[string]any

// Decode extracts the candidate object from raw reply text.
func Decode(text string) (Candidate, error) {
	obj, err := jsonx.ExtractObject(text)
	if err != nil {
		return nil, err
	}
	return Candidate(obj), nil
}

// HasSchema reports whether the "schema" key is present at all.
func (c Candidate) HasSchema() bool {
	_, ok := c["schema"]
	return ok
}

// RequireSchema fails unless "schema" holds an object.
func (c Candidate) RequireSchema() error {
	v, ok := c["schema"]
	if !ok {
		return ErrMissingSchema
	}
	if _, ok := v.(map[string]any); !ok {
		return fmt.Errorf("%w: schema is %T", jsonx.ErrNotObject, v)
	}
	return nil
}

func (c Candidate) Schema() schema.Collections {
	return normalize.Schema(c["schema"])
}

// SetSchema replaces the raw schema, keeping later reads consistent.
func (c Candidate) SetSchema(s schema.Collections) {
	c["schema"] = s.AsMap()
}

// Entities returns the listed entities; ok is false when the key is absent.
func (c Candidate) Entities() ([]string, bool) {
	v, ok := c["entities"]
	if !ok {
		return nil, false
	}
	return Strings(v), true
}

// Decisions returns a copy of the decisions object so nested relationship
// extraction can consume it without touching the candidate.
func (c Candidate) Decisions() map[string]any {
	raw, _ := c["decisions"].(map[string]any)
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out
}

// Relationships extracts the relationship input, consuming a mapping nested
// under decisions.
func (c Candidate) Relationships(decisions map[string]any) normalize.RelationshipsInput {
	return normalize.ExtractNested(c["relationships"], decisions)
}

func (c Candidate) Warnings() []string {
	return Strings(c["warnings"])
}

// Explanations returns string explanations; ok is false when the key is
// absent or not an object.
func (c Candidate) Explanations() (map[string]string, bool) {
	raw, ok := c["explanations"].(map[string]any)
	if !ok {
		return nil, false
	}
	return Stringify(raw), true
}

func (c Candidate) Description() string {
	s, _ := c["description"].(string)
	return strings.TrimSpace(s)
}

// Summary is the raw refinementSummary value, which may be any JSON type.
func (c Candidate) Summary() any {
	return c["refinementSummary"]
}

// Confidence keeps numeric scores clamped to 0..100. Numeric strings are
// accepted; everything else is dropped.
func (c Candidate) Confidence() map[string]int {
	raw, _ := c["confidence"].(map[string]any)
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		if n, ok := score(v); ok {
			out[k] = n
		}
	}
	return out
}

// EntityConfidence is the uniform score given to every entity of a
// generated schema.
func EntityConfidence(entities []string) map[string]int {
	out := make(map[string]int, len(entities))
	for _, e := range entities {
		out[e] = fullConfidence
	}
	return out
}

func score(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := json.Number(strings.TrimSuffix(strings.TrimSpace(t), "%")).Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f > 0 && f <= 1 {
		f *= 100
	}
	switch {
	case f < 0:
		f = 0
	case f > 100:
		f = 100
	}
	return int(f + 0.5), true
}

// Indexes reads index specs written as {collection, field|fields, unique,
// reason}. Specs without a collection or any non-identity field are dropped.
func (c Candidate) Indexes() []schema.IndexSpec {
	out := []schema.IndexSpec{}
	list, _ := c["indexes"].([]any)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		coll, _ := m["collection"].(string)
		coll = strings.TrimSpace(coll)
		if coll == "" {
			continue
		}
		var fields []string
		for _, f := range append(Strings(m["fields"]), Strings(m["field"])...) {
			f = strings.TrimSpace(f)
			if f != "" && f != schema.IdentityField {
				fields = append(fields, f)
			}
		}
		if obj, ok := m["fields"].(map[string]any); ok {
			keys := make([]string, 0, len(obj))
			for k := range obj {
				if k != schema.IdentityField {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			fields = append(fields, keys...)
		}
		if len(fields) == 0 {
			continue
		}
		unique, _ := m["unique"].(bool)
		reason, _ := m["reason"].(string)
		out = append(out, schema.IndexSpec{Collection: coll, Fields: fields, Unique: unique, Reason: reason})
	}
	return out
}

// Strings reads a string or a list of strings; other items are skipped.
func Strings(v any) []string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return nil
	}
}

// Stringify renders free-form values as text. Non-strings are JSON encoded.
func Stringify(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case string:
			out[k] = t
		case nil:
			out[k] = ""
		default:
			b, err := json.Marshal(t)
			if err != nil {
				out[k] = fmt.Sprint(t)
				continue
			}
			out[k] = string(b)
		}
	}
	return out
}
