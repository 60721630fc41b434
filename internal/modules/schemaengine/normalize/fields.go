// Package normalize canonicalizes schema shapes coming from untrusted
// sources (generative output, stored documents, refinement edits).
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

var typeAliases = map[string]string{
	"string":    schema.TypeString,
	"text":      schema.TypeString,
	"str":       schema.TypeString,
	"number":    schema.TypeNumber,
	"int":       schema.TypeNumber,
	"integer":   schema.TypeNumber,
	"float":     schema.TypeNumber,
	"double":    schema.TypeNumber,
	"date":      schema.TypeDate,
	"datetime":  schema.TypeDate,
	"bool":      schema.TypeBoolean,
	"boolean":   schema.TypeBoolean,
	"object":    schema.TypeObject,
	"array":     schema.TypeArray,
	"objectid":  schema.TypeObjectID,
	"object id": schema.TypeObjectID,
}

// CanonicalType maps a type alias to its tag. Unknown names return ok=false.
func CanonicalType(name string) (string, bool) {
	tag, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]
	return tag, ok
}

// Type maps a leaf value to a type tag. Unrecognized strings pass through
// untouched so annotations like "ObjectId (ref: users)" survive.
func Type(v any) any {
	switch t := v.(type) {
	case string:
		if tag, ok := CanonicalType(t); ok {
			return tag
		}
		return t
	case bool:
		return schema.TypeBoolean
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return schema.TypeNumber
	default:
		return schema.TypeString
	}
}

// Field normalizes one field value. Objects recurse, arrays keep only the
// shape of their first element.
func Field(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, nested := range t {
			out[k] = Field(nested)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, nested := range t {
			key, ok := k.(string)
			if !ok {
				continue
			}
			out[key] = Field(nested)
		}
		return out
	case []any:
		if len(t) == 0 {
			return []any{}
		}
		return []any{Field(t[0])}
	case []string:
		if len(t) == 0 {
			return []any{}
		}
		return []any{Field(t[0])}
	default:
		return Type(v)
	}
}

// Schema normalizes a raw collections mapping. Anything that is not a mapping
// yields an empty schema; every collection ends up with an identity field.
// A missing _id becomes ObjectId, while an _id the source already declares
// keeps its (normalized) type, so a "string" or "uuid" key stays as given.
func Schema(raw any) schema.Collections {
	out := schema.Collections{}
	var entries map[string]any
	switch t := raw.(type) {
	case schema.Collections:
		entries = t.AsMap()
	case map[string]any:
		entries = t
	case map[any]any:
		entries = make(map[string]any, len(t))
		for k, v := range t {
			if key, ok := k.(string); ok {
				entries[key] = v
			}
		}
	default:
		return out
	}
	for name, fields := range entries {
		var normalized map[string]any
		switch f := fields.(type) {
		case map[string]any, map[any]any:
			normalized = Field(f).(map[string]any)
		default:
			normalized = map[string]any{}
		}
		if _, ok := normalized[schema.IdentityField]; !ok {
			normalized[schema.IdentityField] = schema.TypeObjectID
		}
		out[name] = normalized
	}
	return out
}
