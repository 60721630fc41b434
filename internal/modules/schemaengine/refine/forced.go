package refine

import (
	"regexp"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/synth"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/textutil"
)

// SeparateCollectionRationale is recorded for collections added on request.
const SeparateCollectionRationale = "→ SEPARATE COLLECTION - Requested in refinement"

var embedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`keep\s+(?P<child>[\w\s]+?)\s+in\s+(?P<parent>[\w\s]+?)\s+collection`),
	regexp.MustCompile(`keep\s+(?P<child>[\w\s]+?)\s+in\s+(?P<parent>[\w\s]+?)\s+only`),
	regexp.MustCompile(`embed\s+(?P<child>[\w\s]+?)\s+in\s+(?P<parent>[\w\s]+?)(?:\s+collection)?\s*(?:[.,;!?]|$)`),
}

// ForceEmbed moves a child collection into its parent when text asks to
// keep or embed it there. Both collections must already exist.
func ForceEmbed(text string, w *Workspace) bool {
	changed := false
	for _, clause := range clausesOf(text) {
		for _, re := range embedPatterns {
			m := re.FindStringSubmatch(clause)
			if m == nil {
				continue
			}
			child := textutil.NormalizeTerm(m[re.SubexpIndex("child")])
			parent := textutil.NormalizeTerm(m[re.SubexpIndex("parent")])
			if embedCollection(w, child, parent) {
				changed = true
			}
			break
		}
	}
	return changed
}

// clausesOf lowercases text and splits it into sentences and clauses.
func clausesOf(text string) []string {
	var out []string
	for _, sentence := range sentenceSplit.Split(strings.ToLower(text), -1) {
		out = append(out, Clauses(sentence)...)
	}
	return out
}

// embedCollection performs the move for normalized child and parent terms.
func embedCollection(w *Workspace, child, parent string) bool {
	if child == "" || parent == "" {
		return false
	}
	childColl, ok := synth.ResolveCollection(w.Schema, child)
	if !ok {
		return false
	}
	parentColl, ok := synth.ResolveCollection(w.Schema, parent)
	if !ok || childColl == parentColl {
		return false
	}

	doc := map[string]any{}
	for k, v := range w.Schema[childColl] {
		if k != schema.IdentityField {
			doc[k] = schema.CopyValue(v)
		}
	}
	if len(doc) == 0 {
		doc[schema.IdentityField] = schema.TypeObjectID
	}
	embedField := textutil.Pluralize(textutil.ToCamel(child))
	parentFields := w.Schema[parentColl]
	if _, exists := parentFields[embedField]; !exists {
		parentFields[embedField] = []any{doc}
	}
	delete(w.Schema, childColl)

	dangling := map[string]bool{
		textutil.ToCamel(textutil.Singularize(child)) + "Id": true,
		textutil.ToCamel(child) + "Id":                       true,
	}
	for _, fields := range w.Schema {
		for f := range fields {
			if dangling[f] {
				delete(fields, f)
			}
		}
	}

	childEntity := synth.EntityName(child)
	parentEntity := synth.EntityName(parent)
	w.removeEntity(childEntity)
	delete(w.Decisions, childColl)
	if rationale, ok := w.Decisions[parentColl]; ok {
		w.Decisions[parentColl] = rationale + " " + childEntity + " embedded for locality"
	}
	w.Relate(parentEntity+" has "+childEntity, schema.Embed)
	return true
}

var (
	addPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\badd\s+(?:new\s+)?collections?\s+(?:(?:named|called|for)\s+)?(?P<names>[\w\s,]+)`),
		regexp.MustCompile(`\badd\s+(?:new\s+)?(?P<names>[\w\s,]+?)\s+collections?\b`),
	}
	bareAdd      = regexp.MustCompile(`\badd\s+(?:new\s+)?(?P<names>[\w\s,]+)`)
	bareAddGuard = regexp.MustCompile(`\b(?:field|fields|to|in|into|for|from|with|on|index|indexes|attribute|attributes|property)\b`)
	nameSplit    = regexp.MustCompile(`,|\band\b`)
	withClause   = regexp.MustCompile(`\bwith\b.*$`)
	ignoredNames = map[string]bool{
		"collection": true, "collections": true, "entity": true, "entities": true,
		"table": true, "tables": true, "also": true,
	}
	sentenceSplit = regexp.MustCompile(`[.!?;]`)
)

// ForceAddCollections makes sure every collection named in an explicit add
// request exists and carries a decision.
func ForceAddCollections(text string, w *Workspace) bool {
	changed := false
	for _, name := range requestedCollections(text) {
		coll, _ := w.ensure(name)
		if coll == "" {
			continue
		}
		if _, ok := w.Decisions[coll]; !ok {
			w.Decisions[coll] = SeparateCollectionRationale
		}
		changed = true
	}
	return changed
}

func requestedCollections(text string) []string {
	var names []string
	for _, clause := range clausesOf(text) {
		raw, ok := matchAdd(clause)
		if !ok {
			continue
		}
		raw = withClause.ReplaceAllString(raw, "")
		for _, token := range nameSplit.Split(raw, -1) {
			token = strings.TrimSpace(token)
			if token == "" || ignoredNames[token] {
				continue
			}
			names = append(names, token)
		}
	}
	return names
}

func matchAdd(sentence string) (string, bool) {
	for _, re := range addPatterns {
		if m := re.FindStringSubmatch(sentence); m != nil {
			return m[re.SubexpIndex("names")], true
		}
	}
	m := bareAdd.FindStringSubmatch(sentence)
	if m == nil {
		return "", false
	}
	names := m[bareAdd.SubexpIndex("names")]
	if bareAddGuard.MatchString(names) {
		return "", false
	}
	return names, true
}
