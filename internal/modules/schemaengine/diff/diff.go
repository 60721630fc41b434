// Package diff compares schemas structurally: dotted field paths, canonical
// equality and size metrics.
package diff

import (
	"encoding/json"
	"sort"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
)

// ArraySuffix marks a path segment that descends into an array element.
const ArraySuffix = "[]"

// Paths flattens a schema into sorted dotted paths. Arrays contribute one
// "[]"-suffixed segment and descend into their first element.
func Paths(c schema.Collections) []string {
	var out []string
	walk(c.AsMap(), "", &out)
	sort.Strings(out)
	return out
}

func walk(v any, prefix string, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			*out = append(*out, p)
			walk(child, p, out)
		}
	case []any:
		if len(t) > 0 {
			walk(t[0], prefix+ArraySuffix, out)
		}
	}
}

// Compute returns the symmetric path difference, each side sorted. Changed
// lists paths present on both sides whose value differs, such as a field
// retyped from "string" to "number"; container paths only appear there when
// their kind changes.
func Compute(prev, next schema.Collections) schema.Diff {
	before := signatures(prev)
	after := signatures(next)
	d := schema.Diff{Added: []string{}, Removed: []string{}}
	for p, sig := range after {
		old, ok := before[p]
		switch {
		case !ok:
			d.Added = append(d.Added, p)
		case old != sig:
			d.Changed = append(d.Changed, p)
		}
	}
	for p := range before {
		if _, ok := after[p]; !ok {
			d.Removed = append(d.Removed, p)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	return d
}

const (
	objectSignature = "{object}"
	arraySignature  = "[array]"
)

// signatures maps every path Paths reports to a comparable value. Arrays of
// documents are described by their first element, matching Paths; arrays of
// scalars compare as canonical JSON so element order does not count.
func signatures(c schema.Collections) map[string]string {
	out := map[string]string{}
	var visit func(v any, prefix string)
	visit = func(v any, prefix string) {
		switch t := v.(type) {
		case map[string]any:
			for k, child := range t {
				p := k
				if prefix != "" {
					p = prefix + "." + k
				}
				out[p] = kindOf(child)
				visit(child, p)
			}
		case []any:
			if len(t) > 0 {
				visit(t[0], prefix+ArraySuffix)
			}
		}
	}
	visit(c.AsMap(), "")
	return out
}

func kindOf(v any) string {
	switch t := v.(type) {
	case map[string]any:
		return objectSignature
	case []any:
		if len(t) > 0 {
			if _, ok := t[0].(map[string]any); ok {
				return arraySignature
			}
		}
		return canonicalJSON(canonical(t))
	default:
		return canonicalJSON(t)
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it] = true
	}
	return out
}

// Equal reports whether a and b are the same schema ignoring key order and
// list element order.
func Equal(a, b schema.Collections) bool {
	return canonicalJSON(canonical(a.AsMap())) == canonicalJSON(canonical(b.AsMap()))
}

// canonical sorts list elements by their JSON form; map keys are already
// emitted sorted by encoding/json.
func canonical(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = canonical(child)
		}
		return out
	case []any:
		items := make([]any, len(t))
		keys := make([]string, len(t))
		for i, child := range t {
			items[i] = canonical(child)
			keys[i] = canonicalJSON(items[i])
		}
		idx := make([]int, len(t))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })
		sorted := make([]any, len(t))
		for i, j := range idx {
			sorted[i] = items[j]
		}
		return sorted
	default:
		return v
	}
}

func canonicalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Measure counts collections, fields (collections included, arrays counted
// through their first element) and maximum nesting depth.
func Measure(c schema.Collections) schema.Metrics {
	m := c.AsMap()
	return schema.Metrics{
		Collections: len(c),
		Fields:      countFields(m),
		Depth:       maxDepth(m, 0),
	}
}

func countFields(v any) int {
	switch t := v.(type) {
	case map[string]any:
		total := 0
		for _, child := range t {
			total += 1 + countFields(child)
		}
		return total
	case []any:
		if len(t) == 0 {
			return 0
		}
		return countFields(t[0])
	default:
		return 0
	}
}

func maxDepth(v any, depth int) int {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return depth
		}
		best := 0
		for _, child := range t {
			if d := maxDepth(child, depth+1); d > best {
				best = d
			}
		}
		return best
	case []any:
		if len(t) == 0 {
			return depth + 1
		}
		best := 0
		for _, child := range t {
			if d := maxDepth(child, depth+1); d > best {
				best = d
			}
		}
		return best
	default:
		return depth
	}
}
