package synth

import (
	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

// ResolveCollection finds an existing collection for a loosely written name,
// trying the normalized term as is, pluralized and singularized.
func ResolveCollection(c schema.Collections, name string) (string, bool) {
	normalized := textutil.NormalizeTerm(name)
	if normalized == "" {
		return "", false
	}
	for _, candidate := range []string{
		normalized,
		textutil.Pluralize(normalized),
		textutil.Singularize(normalized),
		textutil.CollectionName(textutil.TitleCase(normalized)),
	} {
		if _, ok := c[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

// EntityName is the canonical entity for a loosely written name.
func EntityName(name string) string {
	return textutil.TitleCase(textutil.NormalizeTerm(name))
}

// EnsureCollection returns the collection for name, creating it when absent.
// Known entities are seeded from their template; unknown ones start with the
// identity field only. The second result reports whether it was created.
func EnsureCollection(c schema.Collections, name string) (string, bool) {
	if existing, ok := ResolveCollection(c, name); ok {
		return existing, false
	}
	entity := EntityName(name)
	if entity == "" {
		return "", false
	}
	coll := textutil.CollectionName(entity)
	fields := identityOnly()
	if tmpl, ok := vocab.Get().Template(entity); ok {
		for _, f := range tmpl {
			fields[f] = schema.TypeString
		}
	}
	c[coll] = fields
	return coll, true
}
