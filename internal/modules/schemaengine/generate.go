package schemaengine

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/candidate"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/decide"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/extract"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/normalize"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/prompts"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/synth"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

const (
	generateMaxTokens  = 2000
	defaultDesignNote  = "Schema generated by language model"
	fallbackWarningFmt = "Fallback NLP mode (LLM error: %v)"
)

// GenerateSchema designs a schema from requirements text. The generative
// service is asked once; any failure is answered by the rule-based pipeline.
func (e *Engine) GenerateSchema(ctx context.Context, text, workload string) *schema.Result {
	ctx, span := observability.Tracer().Start(ctx, "schemaengine.generate")
	defer span.End()

	res, attempts, err := e.generate(ctx, text, workload)
	if err != nil {
		span.RecordError(err)
		e.log.Warn("generation failed, using rules", "attempts", attempts, "error", err)
		res = generateFallback(text, workload, err)
	}
	res.GenerationAttempts = attempts
	e.stamp(res, nil)
	e.finish(span, operationGenerate, res)
	e.log.Info("schema generated", "source", res.Source, "entities", len(res.Entities), "collections", len(res.Schema))
	return res
}

func (e *Engine) generate(ctx context.Context, text, workload string) (*schema.Result, int, error) {
	if e.llm == nil {
		return nil, 0, llm.ErrDisabled
	}
	p, err := prompts.GenerationPrompt(text, workload)
	if err != nil {
		return nil, 0, fmt.Errorf("build prompt: %w", err)
	}
	reply, err := e.llm.Complete(ctx, p.Text, llm.WithMaxTokens(generateMaxTokens))
	if err != nil {
		return nil, 1, err
	}
	c, err := candidate.Decode(reply)
	if err != nil {
		return nil, 1, err
	}
	if err := c.RequireSchema(); err != nil {
		return nil, 1, err
	}
	return fromCandidate(c, text, workload), 1, nil
}

// fromCandidate assembles a result from a decoded generative response.
// Decisions are re-derived from the requirements text so risk and cost
// figures are comparable with the rule-based path.
func fromCandidate(c candidate.Candidate, text, workload string) *schema.Result {
	s := c.Schema()
	decisionsRaw := c.Decisions()
	rels := normalize.Relationships(c.Relationships(decisionsRaw), decisionsRaw, s)

	entities, ok := c.Entities()
	if !ok {
		entities = entityNames(s)
	}
	outcome := decide.Decide(text, decide.Labels(rels))

	explanations, ok := c.Explanations()
	if !ok {
		note := c.Description()
		if note == "" {
			note = defaultDesignNote
		}
		explanations = map[string]string{"design": note}
	}
	warnings := c.Warnings()
	if warnings == nil {
		warnings = []string{}
	}

	return &schema.Result{
		Entities:          entities,
		Relationships:     rels,
		Attributes:        synth.AttributesFromSchema(s),
		Decisions:         candidate.Stringify(decisionsRaw),
		WhyNot:            map[string]string{},
		Confidence:        candidate.EntityConfidence(entities),
		FutureRiskScore:   outcome.Risk(),
		PerformanceIndex:  outcome.Performance(),
		QueryCostAnalysis: outcome.QueryCosts,
		GrowthRiskMap:     outcome.Growth,
		AutoSharding:      decide.SuggestSharding(entities),
		Schema:            s,
		Indexes:           c.Indexes(),
		Warnings:          warnings,
		Explanations:      explanations,
		AccessPattern:     workload,
		Source:            schema.SourceGenerative,
	}
}

// generateFallback runs extraction, decisions and synthesis over text.
func generateFallback(text, workload string, cause error) *schema.Result {
	entities := extract.Entities(text)
	relations := extract.Relationships(text, entities)
	outcome := decide.Decide(text, relations)
	s := normalize.Schema(synth.Build(entities, outcome.Choices))
	decisions := outcome.Decisions

	warnings := append(synth.Warnings(text, decisions), fmt.Sprintf(fallbackWarningFmt, cause))
	return &schema.Result{
		Entities:          entities,
		Relationships:     decisions,
		Attributes:        synth.Attributes(entities),
		Decisions:         synth.DecisionText(decisions),
		WhyNot:            synth.WhyNot(decisions),
		Confidence:        synth.Confidence(decisions),
		FutureRiskScore:   outcome.Risk(),
		PerformanceIndex:  outcome.Performance(),
		QueryCostAnalysis: outcome.QueryCosts,
		GrowthRiskMap:     outcome.Growth,
		AutoSharding:      decide.SuggestSharding(entities),
		Schema:            s,
		Indexes:           synth.Indexes(outcome.Choices),
		Warnings:          warnings,
		Explanations:      synth.Explanations(decisions),
		AccessPattern:     workload,
		Source:            schema.SourceFallback,
	}
}

func entityNames(s schema.Collections) []string {
	out := make([]string, 0, len(s))
	for coll := range s {
		out = append(out, synth.EntityName(coll))
	}
	sort.Strings(out)
	return out
}
