// Package textutil holds the small English-ish word helpers shared by the
// extractor, synthesizer and refinement rules.
package textutil

import (
	"regexp"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

func Singularize(term string) string {
	switch {
	case strings.HasSuffix(term, "ies") && len(term) > 3:
		return term[:len(term)-3] + "y"
	case strings.HasSuffix(term, "ses") && len(term) > 3:
		return term[:len(term)-2]
	case strings.HasSuffix(term, "s") && !strings.HasSuffix(term, "ss") && len(term) > 3:
		return term[:len(term)-1]
	default:
		return term
	}
}

func Pluralize(term string) string {
	switch {
	case strings.HasSuffix(term, "y") && len(term) > 2:
		return term[:len(term)-1] + "ies"
	case strings.HasSuffix(term, "s"):
		return term + "es"
	default:
		return term + "s"
	}
}

// TitleCase joins words capitalized: "medical record" -> "MedicalRecord".
func TitleCase(term string) string {
	var b strings.Builder
	for _, word := range strings.Fields(term) {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

var camelSplit = regexp.MustCompile(`[\s_]+`)

// ToCamel: "due date" -> "dueDate".
func ToCamel(term string) string {
	var parts []string
	for _, p := range camelSplit.Split(term, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return term
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(capitalize(p))
	}
	return b.String()
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z\s]`)

// NormalizeTerm lowercases, strips non-letters, singularizes each word and
// drops leading articles and a trailing generic suffix ("the school apps" ->
// "school").
func NormalizeTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(nonLetters.ReplaceAllString(term, " ")))
	if term == "" {
		return ""
	}
	t := vocab.Get()
	var parts []string
	for _, p := range strings.Fields(term) {
		parts = append(parts, Singularize(p))
	}
	for len(parts) > 0 && t.IsArticle(parts[0]) {
		parts = parts[1:]
	}
	if len(parts) > 1 && t.IsGenericSuffix(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

// CollectionName is the collection an entity is stored in: "Class" -> "classes".
func CollectionName(entity string) string {
	return Pluralize(strings.ToLower(entity))
}
