package schema

// CopyValue deep copies a decoded JSON-like value.
func CopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, nested := range t {
			out[k] = CopyValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, nested := range t {
			out[i] = CopyValue(nested)
		}
		return out
	default:
		return v
	}
}

func (c Collections) Clone() Collections {
	if c == nil {
		return nil
	}
	out := make(Collections, len(c))
	for name, fields := range c {
		out[name] = CopyValue(fields).(map[string]any)
	}
	return out
}

// AsMap exposes the collections as a plain decoded-JSON value.
func (c Collections) AsMap() map[string]any {
	out := make(map[string]any, len(c))
	for name, fields := range c {
		out[name] = fields
	}
	return out
}

func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	if r.PreviousVersionID != nil {
		prev := *r.PreviousVersionID
		out.PreviousVersionID = &prev
	}
	out.Entities = append([]string(nil), r.Entities...)
	out.Relationships = copyMap(r.Relationships)
	out.Decisions = copyMap(r.Decisions)
	out.WhyNot = copyMap(r.WhyNot)
	out.Confidence = copyMap(r.Confidence)
	out.QueryCostAnalysis = copyMap(r.QueryCostAnalysis)
	out.GrowthRiskMap = copyMap(r.GrowthRiskMap)
	out.Explanations = copyMap(r.Explanations)
	out.AutoSharding = append([]ShardSuggestion(nil), r.AutoSharding...)
	out.Warnings = append([]string(nil), r.Warnings...)
	out.Schema = r.Schema.Clone()
	if r.Attributes != nil {
		out.Attributes = make(map[string][]string, len(r.Attributes))
		for k, v := range r.Attributes {
			out.Attributes[k] = append([]string(nil), v...)
		}
	}
	if r.Indexes != nil {
		out.Indexes = make([]IndexSpec, len(r.Indexes))
		for i, idx := range r.Indexes {
			idx.Fields = append([]string(nil), idx.Fields...)
			out.Indexes[i] = idx
		}
	}
	if r.Metrics != nil {
		m := *r.Metrics
		out.Metrics = &m
	}
	if r.Diff != nil {
		d := Diff{
			Added:   append([]string(nil), r.Diff.Added...),
			Removed: append([]string(nil), r.Diff.Removed...),
			Changed: append([]string(nil), r.Diff.Changed...),
		}
		out.Diff = &d
	}
	return &out
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
