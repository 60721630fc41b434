package prompts

import "strings"

// Input carries every value a template may reference. Unused fields render
// as zero values.
type Input struct {
	Text       string
	Workload   string
	SchemaJSON string
	Junction   bool
	Persona    string
}

var junctionHints = []string{
	"cost", "price", "pricing", "different cost", "different price",
	"inventory", "stock", "quantity", "availability",
}

// NeedsJunctionGuidance reports whether text hints at many-to-many pairs
// carrying their own attributes, such as per-store prices.
func NeedsJunctionGuidance(text string) bool {
	lower := strings.ToLower(text)
	for _, h := range junctionHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
