// Package vocab holds the read-only keyword tables behind the rule-based
// schema pipeline. Tables load once from an embedded YAML document and are
// safe for concurrent readers.
package vocab

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

//go:embed vocab.yaml
var vocabYAML []byte

type KeywordEntry struct {
	Entity string   `yaml:"entity"`
	Terms  []string `yaml:"terms"`
}

type RelationRule struct {
	Triggers []string `yaml:"triggers"`
	Verb     string   `yaml:"verb"`
	Subjects []string `yaml:"subjects"`
	Objects  []string `yaml:"objects"`
}

type Domain struct {
	Name     string   `yaml:"name"`
	Pattern  string   `yaml:"pattern"`
	Entities []string `yaml:"entities"`

	re *regexp.Regexp
}

// Matches reports whether the lowercased text triggers this domain.
func (d Domain) Matches(textLower string) bool {
	return d.re != nil && d.re.MatchString(textLower)
}

type DefaultRelation struct {
	Domain   string   `yaml:"domain"`
	Requires []string `yaml:"requires"`
	Relation string   `yaml:"relation"`
}

type CardinalityHint struct {
	Cardinality schema.Cardinality `yaml:"cardinality"`
	Terms       []string           `yaml:"terms"`
}

type Tables struct {
	Version           int                 `yaml:"version"`
	Keywords          []KeywordEntry      `yaml:"keywords"`
	Templates         map[string][]string `yaml:"templates"`
	DefaultAttributes []string            `yaml:"default_attributes"`
	RelationRules     []RelationRule      `yaml:"relation_rules"`
	Domains           []Domain            `yaml:"domains"`
	DefaultRelations  []DefaultRelation   `yaml:"default_relations"`
	CardinalityHints  []CardinalityHint   `yaml:"cardinality_hints"`
	TemporalKeywords  []string            `yaml:"temporal_keywords"`
	Misspellings      [][]string          `yaml:"misspellings"`
	StopTerms         []string            `yaml:"stop_terms"`
	GenericSuffixes   []string            `yaml:"generic_suffixes"`
	Articles          []string            `yaml:"articles"`
	ExtraVocabulary   []string            `yaml:"extra_vocabulary"`

	stop       map[string]bool
	suffixes   map[string]bool
	articles   map[string]bool
	vocabulary []string
	vocabSet   map[string]bool
	byEntity   map[string][]string
}

var (
	tablesOnce sync.Once
	tables     *Tables
)

// Get returns the shared tables. The embedded document is part of the binary,
// so a parse failure is a build defect and panics.
func Get() *Tables {
	tablesOnce.Do(func() {
		t, err := Parse(vocabYAML)
		if err != nil {
			panic(fmt.Sprintf("vocab: embedded tables invalid: %v", err))
		}
		tables = t
	})
	return tables
}

// Parse decodes and indexes a vocabulary document.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if len(t.Keywords) == 0 {
		return nil, fmt.Errorf("no keywords")
	}
	for i := range t.Domains {
		re, err := regexp.Compile(t.Domains[i].Pattern)
		if err != nil {
			return nil, fmt.Errorf("domain %q: %w", t.Domains[i].Name, err)
		}
		t.Domains[i].re = re
	}
	if len(t.DefaultAttributes) == 0 {
		t.DefaultAttributes = []string{"name", "createdAt"}
	}
	t.stop = toSet(t.StopTerms)
	t.suffixes = toSet(t.GenericSuffixes)
	t.articles = toSet(t.Articles)
	t.byEntity = make(map[string][]string, len(t.Keywords))

	vocab := map[string]bool{}
	for _, kw := range t.Keywords {
		t.byEntity[kw.Entity] = kw.Terms
		vocab[strings.ToLower(kw.Entity)] = true
		for _, term := range kw.Terms {
			vocab[term] = true
		}
	}
	for _, s := range t.GenericSuffixes {
		vocab[s] = true
	}
	for _, s := range t.ExtraVocabulary {
		vocab[s] = true
	}
	t.vocabSet = vocab
	t.vocabulary = make([]string, 0, len(vocab))
	for w := range vocab {
		t.vocabulary = append(t.vocabulary, w)
	}
	sort.Strings(t.vocabulary)
	return &t, nil
}

// Vocabulary is the closed, sorted word list used for spelling correction.
func (t *Tables) Vocabulary() []string { return t.vocabulary }

func (t *Tables) InVocabulary(word string) bool { return t.vocabSet[word] }

func (t *Tables) IsStopTerm(term string) bool      { return t.stop[term] }
func (t *Tables) IsGenericSuffix(term string) bool { return t.suffixes[term] }
func (t *Tables) IsArticle(term string) bool       { return t.articles[term] }

// KeywordEntity maps a normalized surface form to its canonical entity.
func (t *Tables) KeywordEntity(term string) (string, bool) {
	for _, kw := range t.Keywords {
		for _, candidate := range kw.Terms {
			if candidate == term {
				return kw.Entity, true
			}
		}
	}
	return "", false
}

// TermsFor returns the surface forms of an entity, or its lowercased name
// when the entity has no keyword entry.
func (t *Tables) TermsFor(entity string) []string {
	if terms, ok := t.byEntity[entity]; ok {
		return terms
	}
	return []string{strings.ToLower(entity)}
}

// Attributes returns the template fields for an entity.
func (t *Tables) Attributes(entity string) []string {
	if fields, ok := t.Templates[entity]; ok {
		return append([]string(nil), fields...)
	}
	return append([]string(nil), t.DefaultAttributes...)
}

// Template returns the template fields only for known entities.
func (t *Tables) Template(entity string) ([]string, bool) {
	fields, ok := t.Templates[entity]
	if !ok {
		return nil, false
	}
	return append([]string(nil), fields...), true
}

func (t *Tables) Domain(name string) (Domain, bool) {
	for _, d := range t.Domains {
		if d.Name == name {
			return d, true
		}
	}
	return Domain{}, false
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it] = true
	}
	return out
}
