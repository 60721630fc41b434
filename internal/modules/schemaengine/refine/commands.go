package refine

import (
	"regexp"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/extract"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/normalize"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/synth"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
)

// Command is one recognized edit from a refinement sentence.
type Command interface {
	Name() string
	Apply(w *Workspace)
}

type AddCollection struct {
	Collection string
	Fields     []string
}

func (AddCollection) Name() string { return "add-collection" }

func (c AddCollection) Apply(w *Workspace) {
	coll, _ := w.ensure(c.Collection)
	if coll == "" {
		return
	}
	entity := synth.EntityName(c.Collection)
	for _, f := range c.Fields {
		name := fieldName(f)
		if name == "" {
			continue
		}
		w.Schema[coll][name] = schema.TypeString
		w.addAttribute(entity, name)
	}
}

type RemoveCollection struct {
	Collection string
}

func (RemoveCollection) Name() string { return "remove-collection" }

func (c RemoveCollection) Apply(w *Workspace) {
	entity := synth.EntityName(c.Collection)
	if coll, ok := synth.ResolveCollection(w.Schema, c.Collection); ok {
		delete(w.Schema, coll)
		delete(w.Decisions, coll)
	}
	if entity == "" {
		return
	}
	w.removeEntity(entity)
	w.dropRelations(entity)
}

type RenameCollection struct {
	From, To string
}

func (RenameCollection) Name() string { return "rename-collection" }

func (c RenameCollection) Apply(w *Workspace) {
	old, ok := synth.ResolveCollection(w.Schema, c.From)
	if !ok {
		return
	}
	newEntity := synth.EntityName(c.To)
	if newEntity == "" {
		return
	}
	renamed := textutil.CollectionName(newEntity)
	if renamed != old {
		w.Schema[renamed] = w.Schema[old]
		delete(w.Schema, old)
		if rationale, ok := w.Decisions[old]; ok {
			delete(w.Decisions, old)
			w.Decisions[renamed] = rationale
		}
	}
	oldEntity := synth.EntityName(c.From)
	w.renameEntity(oldEntity, newEntity)
	w.renameRelations(oldEntity, newEntity)
}

type AddField struct {
	Field, Collection string
}

func (AddField) Name() string { return "add-field" }

func (c AddField) Apply(w *Workspace) {
	name := fieldName(c.Field)
	coll, _ := w.ensure(c.Collection)
	if coll == "" || name == "" {
		return
	}
	w.Schema[coll][name] = schema.TypeString
	w.addAttribute(synth.EntityName(c.Collection), name)
}

type AddFields struct {
	Fields     []string
	Collection string
}

func (AddFields) Name() string { return "add-fields" }

func (c AddFields) Apply(w *Workspace) {
	for _, f := range c.Fields {
		AddField{Field: f, Collection: c.Collection}.Apply(w)
	}
}

// RemoveField deletes a top-level field, or else the first nested
// sub-document field with that name.
type RemoveField struct {
	Field, Collection string
}

func (RemoveField) Name() string { return "remove-field" }

func (c RemoveField) Apply(w *Workspace) {
	name := fieldName(c.Field)
	coll, ok := synth.ResolveCollection(w.Schema, c.Collection)
	if !ok || name == "" {
		return
	}
	fields := w.Schema[coll]
	if key, ok := matchField(fields, name); ok && key != schema.IdentityField {
		delete(fields, key)
		w.removeAttribute(synth.EntityName(c.Collection), key)
		return
	}
	for _, v := range fields {
		nested := subDocument(v)
		if nested == nil {
			continue
		}
		if key, ok := matchField(nested, name); ok {
			delete(nested, key)
			return
		}
	}
}

func subDocument(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) > 0 {
			m, _ := t[0].(map[string]any)
			return m
		}
	}
	return nil
}

type RenameField struct {
	From, To, Collection string
}

func (RenameField) Name() string { return "rename-field" }

func (c RenameField) Apply(w *Workspace) {
	coll, ok := synth.ResolveCollection(w.Schema, c.Collection)
	if !ok {
		return
	}
	fields := w.Schema[coll]
	key, ok := matchField(fields, fieldName(c.From))
	renamed := fieldName(c.To)
	if !ok || renamed == "" || key == schema.IdentityField {
		return
	}
	v := fields[key]
	delete(fields, key)
	fields[renamed] = v
	w.replaceAttribute(synth.EntityName(c.Collection), key, renamed)
}

type RetypeField struct {
	Field, Type, Collection string
}

func (RetypeField) Name() string { return "retype-field" }

func (c RetypeField) Apply(w *Workspace) {
	coll, ok := synth.ResolveCollection(w.Schema, c.Collection)
	name := fieldName(c.Field)
	if !ok || name == "" {
		return
	}
	fields := w.Schema[coll]
	if key, found := matchField(fields, name); found {
		name = key
	}
	if name == schema.IdentityField {
		return
	}
	term := textutil.NormalizeTerm(c.Type)
	if tag, known := normalize.CanonicalType(term); known {
		fields[name] = tag
		return
	}
	if term != "" {
		fields[name] = term
	}
}

// Relate records a relation between two named collections and applies its
// shape. Embedding an existing child collection moves it into the parent.
type Relate struct {
	Tag      string
	Parent   string
	Child    string
	Decision schema.Decision
	// BelongsTo labels the relation "Child belongs to Parent" instead of
	// "Parent has Child".
	BelongsTo bool
}

func (c Relate) Name() string { return c.Tag }

func (c Relate) Apply(w *Workspace) {
	parent, child := synth.EntityName(c.Parent), synth.EntityName(c.Child)
	if parent == "" || child == "" || parent == child {
		return
	}
	if c.Decision == schema.Embed {
		if embedCollection(w, textutil.NormalizeTerm(c.Child), textutil.NormalizeTerm(c.Parent)) {
			return
		}
		parentColl, ok := synth.ResolveCollection(w.Schema, c.Parent)
		if !ok {
			return
		}
		field := textutil.Pluralize(textutil.ToCamel(textutil.NormalizeTerm(c.Child)))
		if _, exists := w.Schema[parentColl][field]; !exists {
			w.Schema[parentColl][field] = []any{map[string]any{schema.IdentityField: schema.TypeObjectID}}
		}
		relation := parent + " has " + child
		w.Relate(relation, schema.Embed)
		w.Decisions[relation] = string(schema.Embed)
		return
	}
	if w.ensureTarget(c.Child) == "" || w.ensureTarget(c.Parent) == "" {
		return
	}
	relation := parent + " has " + child
	if c.BelongsTo {
		relation = child + " belongs to " + parent
	}
	w.Relate(relation, c.Decision)
	w.Decisions[relation] = string(c.Decision)
	synth.ApplyRelation(w.Schema, relation, c.Decision)
}

type parser struct {
	pattern *regexp.Regexp
	build   func(g func(string) string) Command
}

func rx(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

var (
	listSplit      = regexp.MustCompile(`,|\band\b`)
	trailingObject = regexp.MustCompile(`\s+(?:collection|collections|table|tables|entity|entities)$`)
)

func splitList(s string) []string {
	var out []string
	for _, item := range listSplit.Split(s, -1) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// target trims a trailing "collection"/"table" word from a named target.
func target(s string) string {
	return trailingObject.ReplaceAllString(strings.TrimSpace(s), "")
}

func relate(tag string, d schema.Decision, belongs bool) func(g func(string) string) Command {
	return func(g func(string) string) Command {
		return Relate{Tag: tag, Parent: target(g("parent")), Child: target(g("child")), Decision: d, BelongsTo: belongs}
	}
}

// parsers are tried in order; the first match wins.
var parsers = []parser{
	{rx(`\badd\s+(?:new\s+)?(?:collection|entity|table)\s+(?:(?:named|called)\s+)?(?P<name>[\w\s]+?)(?:\s+with\s+(?:fields?\s+)?(?P<fields>[\w\s,]+))?\s*$`),
		func(g func(string) string) Command {
			return AddCollection{Collection: g("name"), Fields: splitList(g("fields"))}
		}},
	{rx(`\b(?:remove|delete|drop)\s+(?:the\s+)?(?:collection|entity|table)\s+(?:named\s+)?(?P<name>[\w\s]+)`),
		func(g func(string) string) Command { return RemoveCollection{Collection: g("name")} }},
	{rx(`\brename\s+(?:collection|entity|table)\s+(?P<old>[\w\s]+?)\s+to\s+(?P<new>[\w\s]+)`),
		func(g func(string) string) Command { return RenameCollection{From: g("old"), To: g("new")} }},
	{rx(`\badd\s+fields\s+(?P<fields>[\w\s,]+?)\s+(?:to|in|for)\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command {
			return AddFields{Fields: splitList(g("fields")), Collection: target(g("collection"))}
		}},
	{rx(`\badd\s+field\s+(?P<field>[\w\s]+?)\s+(?:to|in|for)\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command { return AddField{Field: g("field"), Collection: target(g("collection"))} }},
	{rx(`\badd\s+(?P<field>[\w\s]+?)\s+(?:to|for|in)\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command { return AddField{Field: g("field"), Collection: target(g("collection"))} }},
	{rx(`\bremove\s+field\s+(?P<field>[\w\s]+?)\s+from\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command {
			return RemoveField{Field: g("field"), Collection: target(g("collection"))}
		}},
	{rx(`\bremove\s+(?P<field>[\w\s]+?)\s+(?:from|for|in)\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command {
			return RemoveField{Field: g("field"), Collection: target(g("collection"))}
		}},
	{rx(`\brename\s+field\s+(?P<old>[\w\s]+?)\s+to\s+(?P<new>[\w\s]+?)\s+in\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command {
			return RenameField{From: g("old"), To: g("new"), Collection: target(g("collection"))}
		}},
	{rx(`\bchange\s+field\s+(?P<field>[\w\s]+?)\s+to\s+(?P<type>[\w\s]+?)\s+in\s+(?P<collection>[\w\s]+)`),
		func(g func(string) string) Command {
			return RetypeField{Field: g("field"), Type: g("type"), Collection: target(g("collection"))}
		}},
	{rx(`\bembed\s+(?P<child>[\w\s]+?)\s+in(?:to)?\s+(?P<parent>[\w\s]+)`), relate("embed-relation", schema.Embed, false)},
	{rx(`\bmake\s+(?P<child>[\w\s]+?)\s+embedded\s+(?:under|in)\s+(?P<parent>[\w\s]+)`), relate("embed-relation", schema.Embed, false)},
	{rx(`\buse\s+references?\s+for\s+(?P<child>[\w\s]+?)\s+in\s+(?P<parent>[\w\s]+)`), relate("reference-relation", schema.Reference, false)},
	{rx(`\breference\s+(?P<child>[\w\s]+?)\s+in\s+(?P<parent>[\w\s]+)`), relate("reference-relation", schema.Reference, false)},
	{rx(`(?P<parent>[\w\s]+?)\s+has\s+many\s+(?P<child>[\w\s]+)`), relate("has-many", schema.Reference, false)},
	{rx(`(?P<child>[\w\s]+?)\s+belongs\s+to\s+(?P<parent>[\w\s]+)`), relate("belongs-to", schema.Reference, true)},
}

// Parse recognizes one sentence. Unrecognized sentences return ok=false.
func Parse(sentence string) (Command, bool) {
	lower := strings.ToLower(strings.TrimSpace(sentence))
	if lower == "" {
		return nil, false
	}
	for _, p := range parsers {
		m := p.pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		re := p.pattern
		group := func(name string) string {
			if i := re.SubexpIndex(name); i >= 0 && i < len(m) {
				return strings.TrimSpace(m[i])
			}
			return ""
		}
		return p.build(group), true
	}
	return nil, false
}

var clauseBoundary = regexp.MustCompile(`(?i)(?:\s*,\s*(?:and\s+)?|\s+and\s+)(add|remove|delete|drop|rename|change|embed|make|use|reference|keep)\b`)

// Clauses splits a sentence into independent edit requests. A comma or
// "and" only separates clauses when an edit verb follows it, so lists such
// as "phone and address" stay whole.
func Clauses(sentence string) []string {
	var out []string
	for _, part := range strings.Split(sentence, ";") {
		start := 0
		for _, m := range clauseBoundary.FindAllStringSubmatchIndex(part, -1) {
			if piece := strings.TrimSpace(part[start:m[0]]); piece != "" {
				out = append(out, piece)
			}
			start = m[2]
		}
		if piece := strings.TrimSpace(part[start:]); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// Interpret runs every recognized clause of text against w and returns the
// commands applied, in order.
func Interpret(text string, w *Workspace) []Command {
	var applied []Command
	for _, sentence := range extract.SplitSentences(extract.NormalizeText(text)) {
		for _, clause := range Clauses(sentence) {
			cmd, ok := Parse(clause)
			if !ok {
				continue
			}
			cmd.Apply(w)
			applied = append(applied, cmd)
		}
	}
	return applied
}
