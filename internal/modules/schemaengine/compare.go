package schemaengine

import (
	"context"
	"fmt"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/candidate"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/compare"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/prompts"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

const (
	operationCompare     = "compare"
	comparisonFailureFmt = "Comparison schema generation failed: %v"
)

// GenerateForModel designs a schema in the voice of model, asking completer
// once. A failed call yields an empty schema carrying the error, since a
// rule-based stand-in would make every model look alike.
func (e *Engine) GenerateForModel(ctx context.Context, completer llm.Completer, m compare.Model, text, workload string) *schema.Result {
	ctx, span := observability.Tracer().Start(ctx, "schemaengine.compare")
	defer span.End()

	res, err := e.generateAs(ctx, completer, m, text, workload)
	attempts := 1
	if err != nil {
		span.RecordError(err)
		e.log.Warn("comparison generation failed", "model", m.ID, "provider", m.Provider, "error", err)
		if completer == nil {
			attempts = 0
		}
		res = emptyComparison(workload, err)
	}
	res.GenerationAttempts = attempts
	e.stamp(res, nil)
	e.finish(span, operationCompare, res)
	e.log.Info("comparison schema generated", "model", m.ID, "source", res.Source, "collections", len(res.Schema))
	return res
}

func (e *Engine) generateAs(ctx context.Context, completer llm.Completer, m compare.Model, text, workload string) (*schema.Result, error) {
	if completer == nil {
		return nil, llm.ErrDisabled
	}
	p, err := prompts.ComparisonPrompt(m.Persona, text, workload)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	reply, err := completer.Complete(ctx, p.Text, llm.WithMaxTokens(generateMaxTokens))
	if err != nil {
		return nil, err
	}
	c, err := candidate.Decode(reply)
	if err != nil {
		return nil, err
	}
	if err := c.RequireSchema(); err != nil {
		return nil, err
	}
	return fromCandidate(c, text, workload), nil
}

func emptyComparison(workload string, cause error) *schema.Result {
	return &schema.Result{
		Entities:          []string{},
		Relationships:     map[string]schema.Decision{},
		Attributes:        map[string][]string{},
		Decisions:         map[string]string{},
		WhyNot:            map[string]string{},
		Confidence:        map[string]int{},
		QueryCostAnalysis: map[string]schema.QueryCost{},
		GrowthRiskMap:     map[string]schema.Growth{},
		AutoSharding:      []schema.ShardSuggestion{},
		Schema:            schema.Collections{},
		Indexes:           []schema.IndexSpec{},
		Warnings:          []string{fmt.Sprintf(comparisonFailureFmt, cause)},
		Explanations:      map[string]string{"error": cause.Error()},
		AccessPattern:     workload,
		Source:            schema.SourceFallback,
	}
}
