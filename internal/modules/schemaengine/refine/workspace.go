package refine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/synth"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

// Workspace is the mutable copy of a schema that forced rules and commands
// edit. Relation labels keep insertion order.
type Workspace struct {
	Schema     schema.Collections
	Entities   []string
	Attributes map[string][]string
	Decisions  map[string]string

	relations map[string]schema.Decision
	order     []string
}

// NewWorkspace deep copies the editable parts of r.
func NewWorkspace(r *schema.Result) *Workspace {
	w := &Workspace{
		Schema:     schema.Collections{},
		Attributes: map[string][]string{},
		Decisions:  map[string]string{},
		relations:  map[string]schema.Decision{},
	}
	if r == nil {
		return w
	}
	c := r.Clone()
	if c.Schema != nil {
		w.Schema = c.Schema
	}
	w.Entities = c.Entities
	if c.Attributes != nil {
		w.Attributes = c.Attributes
	}
	if c.Decisions != nil {
		w.Decisions = c.Decisions
	}
	labels := make([]string, 0, len(c.Relationships))
	for rel := range c.Relationships {
		labels = append(labels, rel)
	}
	sort.Strings(labels)
	for _, rel := range labels {
		w.Relate(rel, c.Relationships[rel])
	}
	return w
}

// Relate records or overrides the decision for a relation label.
func (w *Workspace) Relate(relation string, d schema.Decision) {
	if _, ok := w.relations[relation]; !ok {
		w.order = append(w.order, relation)
	}
	w.relations[relation] = d
}

// Relations returns the recorded relations, nil when there are none.
func (w *Workspace) Relations() map[string]schema.Decision {
	if len(w.relations) == 0 {
		return nil
	}
	out := make(map[string]schema.Decision, len(w.relations))
	for k, v := range w.relations {
		out[k] = v
	}
	return out
}

func (w *Workspace) RelationLabels() []string {
	return append([]string(nil), w.order...)
}

// dropRelations removes every relation and decision whose label contains
// entity.
func (w *Workspace) dropRelations(entity string) {
	kept := w.order[:0]
	for _, rel := range w.order {
		if strings.Contains(rel, entity) {
			delete(w.relations, rel)
			continue
		}
		kept = append(kept, rel)
	}
	w.order = kept
	for k := range w.Decisions {
		if strings.Contains(k, entity) {
			delete(w.Decisions, k)
		}
	}
}

// renameRelations replaces old with new in relation labels and decision
// keys. Labels that collapse onto an existing one keep the first position.
func (w *Workspace) renameRelations(old, new string) {
	order := w.order
	rels := w.relations
	w.order = nil
	w.relations = map[string]schema.Decision{}
	for _, rel := range order {
		renamed := strings.ReplaceAll(rel, old, new)
		if _, ok := w.relations[renamed]; ok {
			continue
		}
		w.order = append(w.order, renamed)
		w.relations[renamed] = rels[rel]
	}
	decisions := make(map[string]string, len(w.Decisions))
	for k, v := range w.Decisions {
		decisions[strings.ReplaceAll(k, old, new)] = v
	}
	w.Decisions = decisions
}

// ensure returns the collection for name, creating it and registering its
// entity when needed.
func (w *Workspace) ensure(name string) (string, bool) {
	coll, created := synth.EnsureCollection(w.Schema, name)
	if coll == "" {
		return "", false
	}
	entity := synth.EntityName(name)
	w.addEntity(entity)
	if _, ok := w.Attributes[entity]; !ok {
		if tmpl, known := vocab.Get().Template(entity); known {
			w.Attributes[entity] = tmpl
		} else {
			w.Attributes[entity] = []string{}
		}
	}
	return coll, created
}

// ensureTarget resolves name to an existing collection. An unknown name is
// created only when it is a single word; longer unresolved phrases are
// rejected with "".
func (w *Workspace) ensureTarget(name string) string {
	if coll, ok := synth.ResolveCollection(w.Schema, name); ok {
		return coll
	}
	if len(strings.Fields(textutil.NormalizeTerm(name))) != 1 {
		return ""
	}
	coll, _ := w.ensure(name)
	return coll
}

func (w *Workspace) addEntity(entity string) {
	for _, e := range w.Entities {
		if e == entity {
			return
		}
	}
	w.Entities = append(w.Entities, entity)
}

func (w *Workspace) removeEntity(entity string) {
	kept := w.Entities[:0]
	for _, e := range w.Entities {
		if e != entity {
			kept = append(kept, e)
		}
	}
	w.Entities = kept
	delete(w.Attributes, entity)
}

func (w *Workspace) renameEntity(old, new string) {
	for i, e := range w.Entities {
		if e == old {
			w.Entities[i] = new
		}
	}
	if attrs, ok := w.Attributes[old]; ok {
		delete(w.Attributes, old)
		w.Attributes[new] = attrs
	}
}

func (w *Workspace) addAttribute(entity, field string) {
	for _, f := range w.Attributes[entity] {
		if f == field {
			return
		}
	}
	w.Attributes[entity] = append(w.Attributes[entity], field)
}

func (w *Workspace) replaceAttribute(entity, old, new string) {
	attrs := w.Attributes[entity]
	for i, f := range attrs {
		if f == old {
			attrs[i] = new
		}
	}
}

func (w *Workspace) removeAttribute(entity, field string) {
	attrs, ok := w.Attributes[entity]
	if !ok {
		return
	}
	kept := attrs[:0]
	for _, f := range attrs {
		if f != field {
			kept = append(kept, f)
		}
	}
	w.Attributes[entity] = kept
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z\s]`)

// fieldName turns a loosely written field phrase into a camelCase key:
// "the due date" -> "dueDate". Words are not singularized.
func fieldName(phrase string) string {
	words := strings.Fields(strings.ToLower(nonLetters.ReplaceAllString(phrase, " ")))
	t := vocab.Get()
	for len(words) > 0 && t.IsArticle(words[0]) {
		words = words[1:]
	}
	if len(words) == 0 {
		return ""
	}
	return textutil.ToCamel(strings.Join(words, " "))
}

// matchField finds the existing key for name, ignoring case.
func matchField(fields map[string]any, name string) (string, bool) {
	if _, ok := fields[name]; ok {
		return name, true
	}
	for k := range fields {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}
