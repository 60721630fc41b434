// Package extract infers entities and relationships from free text using
// keyword tables. It is the deterministic path used when generation fails.
package extract

import (
	"regexp"
	"strings"
	"sync"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

// PlaceholderEntity is returned when nothing recognizable is found.
const PlaceholderEntity = "Entity"

var (
	patternMu    sync.RWMutex
	patternCache = map[string]*regexp.Regexp{}

	sentenceSplit = regexp.MustCompile(`[.!?]`)
)

// wordPattern compiles (and caches) a whole-word matcher. optionalPlural also
// accepts a trailing "s".
func wordPattern(term string, optionalPlural bool) *regexp.Regexp {
	key := term
	if optionalPlural {
		key += "\x00s"
	}
	patternMu.RLock()
	re, ok := patternCache[key]
	patternMu.RUnlock()
	if ok {
		return re
	}
	expr := `\b` + regexp.QuoteMeta(term)
	if optionalPlural {
		expr += `s?`
	}
	re = regexp.MustCompile(expr + `\b`)
	patternMu.Lock()
	patternCache[key] = re
	patternMu.Unlock()
	return re
}

// SplitSentences splits text on sentence punctuation, dropping blanks.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Entities returns canonical entity names in first-seen order.
func Entities(text string) []string {
	text = NormalizeText(text)
	lower := strings.ToLower(text)
	t := vocab.Get()
	seen := newOrderedSet()

	for _, d := range t.Domains {
		if d.Matches(lower) {
			seen.add(d.Entities...)
		}
	}
	for _, kw := range t.Keywords {
		for _, term := range kw.Terms {
			if wordPattern(term, false).MatchString(lower) {
				seen.add(kw.Entity)
				break
			}
		}
	}
	for _, candidate := range nounCandidates(text) {
		normalized := textutil.NormalizeTerm(candidate)
		if normalized == "" || t.IsStopTerm(normalized) {
			continue
		}
		if entity, ok := t.KeywordEntity(normalized); ok {
			seen.add(entity)
			continue
		}
		if len(normalized) < 3 {
			continue
		}
		seen.add(textutil.TitleCase(normalized))
	}
	if seen.len() == 0 {
		return []string{PlaceholderEntity}
	}
	return seen.items()
}

func isTitle(w string) bool {
	if w == "" || w[0] < 'A' || w[0] > 'Z' {
		return false
	}
	for i := 1; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

type orderedSet struct {
	seen  map[string]bool
	order []string
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: map[string]bool{}} }

func (s *orderedSet) add(items ...string) {
	for _, it := range items {
		if it == "" || s.seen[it] {
			continue
		}
		s.seen[it] = true
		s.order = append(s.order, it)
	}
}

func (s *orderedSet) has(item string) bool { return s.seen[item] }
func (s *orderedSet) len() int             { return len(s.order) }
func (s *orderedSet) items() []string      { return append([]string(nil), s.order...) }
