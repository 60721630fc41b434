package refine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/diff"
)

const (
	minSummaryLength = 30
	summaryPathLimit = 3
)

var (
	applicationKeywords = []string{
		"transaction", "change stream", "changestream", "session.withtransaction",
		"watch()", "trigger", "event handler", "sync updates", "change streams",
	}
	boilerplate = []string{"applied refinement", "implemented ", "requested changes"}
)

// IsApplicationRequest reports whether text asks for behavior that lives in
// application code rather than in the schema.
func IsApplicationRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range applicationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ValidateSummary accepts a generated summary only when it is specific and
// agrees with whether the schema changed.
func ValidateSummary(summary any, request string, changed bool) bool {
	s, ok := summary.(string)
	if !ok {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	if len(lower) < minSummaryLength {
		return false
	}
	for _, phrase := range boilerplate {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	if req := strings.ToLower(strings.TrimSpace(request)); req != "" && lower == req {
		return false
	}
	noChange := strings.HasPrefix(lower, "no schema changes") || strings.HasPrefix(lower, "cannot implement")
	if changed {
		return !strings.HasPrefix(lower, "no schema changes")
	}
	return noChange
}

// BuildSummary describes the structural change between two normalized
// schemas.
func BuildSummary(request string, prev, next schema.Collections, before, after schema.Metrics, changed bool) string {
	if !changed {
		reason := "requested changes did not alter schema structure"
		if IsApplicationRequest(request) {
			reason = "request requires application code implementation"
		}
		return fmt.Sprintf("No schema changes made - %s. Total fields remain %d and collections remain %d.",
			reason, after.Fields, after.Collections)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Updated schema: collections %d -> %d, total fields %d -> %d, max depth %d -> %d.",
		before.Collections, after.Collections, before.Fields, after.Fields, before.Depth, after.Depth)
	if added := missingKeys(next, prev); len(added) > 0 {
		fmt.Fprintf(&b, " Added collections: %s.", strings.Join(added, ", "))
	}
	if removed := missingKeys(prev, next); len(removed) > 0 {
		fmt.Fprintf(&b, " Removed collections: %s.", strings.Join(removed, ", "))
	}
	d := diff.Compute(prev, next)
	if len(d.Added) > 0 {
		fmt.Fprintf(&b, " Added paths: %s.", strings.Join(head(d.Added, summaryPathLimit), ", "))
	}
	if len(d.Removed) > 0 {
		fmt.Fprintf(&b, " Removed paths: %s.", strings.Join(head(d.Removed, summaryPathLimit), ", "))
	}
	if len(d.Changed) > 0 {
		fmt.Fprintf(&b, " Changed paths: %s.", strings.Join(head(d.Changed, summaryPathLimit), ", "))
	}
	return b.String()
}

// missingKeys lists the collections of a that b lacks, sorted.
func missingKeys(a, b schema.Collections) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
