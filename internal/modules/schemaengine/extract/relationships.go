package extract

import (
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

// Relationships scans sentences for "Subject verb Object" labels between the
// given entities and falls back to per-domain defaults when none are found.
func Relationships(text string, entities []string) []string {
	text = NormalizeText(text)
	t := vocab.Get()
	out := newOrderedSet()

	for _, sentence := range sentenceSplit.Split(text, -1) {
		lower := strings.ToLower(sentence)
		present := entitiesInSentence(t, lower, entities)
		if len(present) < 2 {
			continue
		}
		for _, rule := range t.RelationRules {
			if !containsAny(lower, rule.Triggers) {
				continue
			}
			for _, subject := range present {
				for _, object := range present {
					if subject == object {
						continue
					}
					if contains(rule.Subjects, subject) && contains(rule.Objects, object) {
						out.add(subject + " " + rule.Verb + " " + object)
					}
				}
			}
		}
		switch {
		case strings.Contains(lower, "belongs to"):
			out.add(present[0] + " belongs to " + present[1])
		case wordPattern("has", false).MatchString(lower),
			wordPattern("contains", false).MatchString(lower),
			wordPattern("includes", false).MatchString(lower):
			out.add(present[0] + " has " + present[1])
		}
	}
	if out.len() > 0 {
		return out.items()
	}

	lower := strings.ToLower(text)
	known := newOrderedSet()
	known.add(entities...)
	for _, def := range t.DefaultRelations {
		if def.Domain != "" {
			d, ok := t.Domain(def.Domain)
			if !ok || !d.Matches(lower) {
				continue
			}
		}
		if allPresent(known, def.Requires) {
			out.add(def.Relation)
		}
	}
	return out.items()
}

func entitiesInSentence(t *vocab.Tables, sentenceLower string, entities []string) []string {
	present := newOrderedSet()
	for _, entity := range entities {
		for _, term := range t.TermsFor(entity) {
			if wordPattern(term, true).MatchString(sentenceLower) {
				present.add(entity)
				break
			}
		}
	}
	return present.items()
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func contains(items []string, v string) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}

func allPresent(set *orderedSet, required []string) bool {
	for _, r := range required {
		if !set.has(r) {
			return false
		}
	}
	return true
}
