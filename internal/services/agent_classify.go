package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/extract"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/refine"
)

var editVerbs = regexp.MustCompile(`\b(add|remove|delete|drop|rename|embed|reference|change|convert|make|split|merge|denormalize|normalize|index|include|move)\b`)

const (
	askMessage      = "Could you describe the main entities of your application (for example users, orders, products) and how they relate? Knowing whether the workload is read-heavy or write-heavy also helps."
	generateMessage = "Here is an initial schema based on your description."
	refineMessage   = "I applied your change to the current schema."
)

// classifyTurn picks an action from the message alone: edits when a schema is
// in context, generation when the text names at least two entities, otherwise
// a clarifying question.
func classifyTurn(message string, hasSchema bool, cause error) agentTurn {
	reasoning := "Deterministic classifier"
	if cause != nil {
		reasoning = fmt.Sprintf("Deterministic classifier (LLM error: %v)", cause)
	}
	lower := strings.ToLower(message)

	if hasSchema && looksLikeEdit(message, lower) {
		return agentTurn{Reasoning: reasoning, Action: ActionRefine, UserMessage: refineMessage, Refinement: message}
	}
	if named := describedEntities(message); len(named) >= 2 {
		return agentTurn{Reasoning: reasoning, Action: ActionGenerate, UserMessage: generateMessage, Text: message}
	}
	return agentTurn{Reasoning: reasoning, Action: ActionAsk, UserMessage: askMessage}
}

func looksLikeEdit(message, lower string) bool {
	for _, sentence := range extract.SplitSentences(message) {
		if _, ok := refine.Parse(sentence); ok {
			return true
		}
	}
	return editVerbs.MatchString(lower)
}

func describedEntities(message string) []string {
	var out []string
	for _, e := range extract.Entities(message) {
		if e != extract.PlaceholderEntity {
			out = append(out, e)
		}
	}
	return out
}
