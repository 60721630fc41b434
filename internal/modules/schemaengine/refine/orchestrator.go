// Package refine applies a natural-language change request to an existing
// schema: a generative attempt with one strict retry, then a rule-based
// fallback. Both paths pass through the same forced structural rules.
package refine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/candidate"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/decide"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/diff"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/normalize"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/prompts"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/synth"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/jsonx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

const (
	refineMaxTokens   = 3500
	refineTemperature = 0.15

	fallbackWarningPrefix = "LLM refinement failed - deterministic fallback: "
)

type Orchestrator struct {
	llm     llm.Completer
	log     *logger.Logger
	metrics *observability.Metrics
}

// New builds an orchestrator. A nil completer sends every request down the
// rule-based path.
func New(completer llm.Completer, log *logger.Logger, metrics *observability.Metrics) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{llm: completer, log: log.With("service", "RefineOrchestrator"), metrics: metrics}
}

// Run is the record of one refinement.
type Run struct {
	Result   *schema.Result
	States   []State
	Attempts int
	// Err is the generative failure that forced the fallback, if any.
	Err      error
	Commands []string
}

// Apply returns the refined schema without version metadata.
func (o *Orchestrator) Apply(ctx context.Context, prev *schema.Result, text, workload string) *schema.Result {
	return o.Run(ctx, prev, text, workload).Result
}

func (o *Orchestrator) Run(ctx context.Context, prev *schema.Result, text, workload string) Run {
	var prevSchema schema.Collections
	if prev != nil {
		prevSchema = prev.Schema
	}
	r := &run{
		o:         o,
		prev:      prev,
		text:      text,
		workload:  workload,
		oldSchema: normalize.Schema(prevSchema),
	}
	r.enter(StateStart)
	for r.state != StateDone {
		r.step(ctx)
	}
	return r.out
}

type run struct {
	o         *Orchestrator
	prev      *schema.Result
	text      string
	workload  string
	oldSchema schema.Collections
	cand      candidate.Candidate
	err       error
	state     State
	out       Run
}

func (r *run) enter(s State) {
	r.state = s
	r.out.States = append(r.out.States, s)
	r.o.metrics.IncRefineTransition(s.String())
	r.o.log.Debug("refinement state", "state", s.String(), "attempts", r.out.Attempts)
}

func (r *run) step(ctx context.Context) {
	switch r.state {
	case StateStart:
		r.enter(StateLLMAttempt)
	case StateLLMAttempt:
		r.attempt(ctx, false)
	case StateValidateRetry:
		r.attempt(ctx, true)
	case StateValidateOK:
		r.out.Result = r.fromCandidate()
		r.enter(StateDone)
	case StateLLMFailed:
		r.out.Err = r.err
		r.o.log.Warn("generative refinement failed, using rules", "attempts", r.out.Attempts, "error", r.err)
		r.enter(StateDeterministicFallback)
	case StateDeterministicFallback:
		r.out.Result = r.fallback()
		r.enter(StateDone)
	default:
		r.enter(StateDone)
	}
}

// attempt calls the service once and picks the next state. The strict
// prompt is used at most once.
func (r *run) attempt(ctx context.Context, strict bool) {
	cand, err := r.call(ctx, strict)
	switch {
	case err != nil:
		r.err = err
		r.enter(StateLLMFailed)
	case !cand.HasSchema() && !strict:
		r.enter(StateValidateRetry)
	case !cand.HasSchema():
		r.err = candidate.ErrMissingSchema
		r.enter(StateLLMFailed)
	default:
		if err := cand.RequireSchema(); err != nil {
			r.err = err
			r.enter(StateLLMFailed)
			return
		}
		r.cand = cand
		r.enter(StateValidateOK)
	}
}

func (r *run) call(ctx context.Context, strict bool) (candidate.Candidate, error) {
	if r.o.llm == nil {
		return nil, llm.ErrDisabled
	}
	build := prompts.RefinementPrompt
	if strict {
		build = prompts.StrictRefinementPrompt
	}
	p, err := build(jsonx.Pretty(r.oldSchema), r.text, r.workload)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	r.out.Attempts++
	reply, err := r.o.llm.Complete(ctx, p.Text,
		llm.WithMaxTokens(refineMaxTokens),
		llm.WithTemperature(refineTemperature),
	)
	if err != nil {
		return nil, err
	}
	return candidate.Decode(reply)
}

func (r *run) fromCandidate() *schema.Result {
	c := r.cand
	decisionsRaw := c.Decisions()
	relIn := c.Relationships(decisionsRaw)

	w := &Workspace{
		Schema:     c.Schema(),
		Attributes: map[string][]string{},
		Decisions:  candidate.Stringify(decisionsRaw),
		relations:  map[string]schema.Decision{},
	}
	if entities, ok := c.Entities(); ok {
		w.Entities = entities
	} else {
		w.Entities = collectionNames(w.Schema)
	}
	ForceEmbed(r.text, w)
	ForceAddCollections(r.text, w)

	newSchema := normalize.Schema(w.Schema)
	rels := normalize.Relationships(relIn, decisionsRaw, newSchema)
	for label, d := range w.Relations() {
		rels[label] = d
	}

	changed := !diff.Equal(r.oldSchema, newSchema)
	before, after := diff.Measure(r.oldSchema), diff.Measure(newSchema)
	summary, ok := c.Summary().(string)
	if !ValidateSummary(c.Summary(), r.text, changed) {
		summary = BuildSummary(r.text, r.oldSchema, newSchema, before, after, changed)
		r.o.metrics.IncSummaryReplaced()
		r.o.log.Debug("refinement summary replaced", "had_summary", ok, "changed", changed)
	}

	explanations, ok := c.Explanations()
	if !ok {
		explanations = synth.Explanations(rels)
	}
	confidence := c.Confidence()
	if len(confidence) == 0 {
		confidence = synth.Confidence(rels)
	}

	res := r.assemble(w, newSchema, rels, before, after)
	res.RefinementSummary = strings.TrimSpace(summary)
	res.Attributes = synth.AttributesFromSchema(newSchema)
	res.Indexes = c.Indexes()
	res.Warnings = nonNil(c.Warnings())
	res.Explanations = explanations
	res.Confidence = confidence
	res.Source = schema.SourceGenerative
	return res
}

func (r *run) fallback() *schema.Result {
	w := NewWorkspace(r.prev)
	w.Schema = r.oldSchema.Clone()
	ForceEmbed(r.text, w)
	ForceAddCollections(r.text, w)
	for _, cmd := range Interpret(r.text, w) {
		r.out.Commands = append(r.out.Commands, cmd.Name())
	}

	newSchema := normalize.Schema(w.Schema)
	rels := w.Relations()
	if rels == nil {
		rels = normalize.Relationships(normalize.RelationshipsInput{Kind: normalize.RelAbsent}, toAny(w.Decisions), newSchema)
	}
	before, after := diff.Measure(r.oldSchema), diff.Measure(newSchema)
	changed := !diff.Equal(r.oldSchema, newSchema)

	warnings := []string{fallbackWarningPrefix + errorText(r.err)}
	if r.prev != nil {
		warnings = append(warnings, r.prev.Warnings...)
	}
	warnings = append(warnings, synth.Warnings(r.text, rels)...)

	explanations := synth.Explanations(rels)
	explanations["refinement"] = "Refinement request: " + strings.TrimSpace(r.text)

	res := r.assemble(w, newSchema, rels, before, after)
	res.RefinementSummary = BuildSummary(r.text, r.oldSchema, newSchema, before, after, changed)
	res.Attributes = w.Attributes
	res.Indexes = synth.Indexes(decide.Sorted(rels))
	res.Warnings = dedupe(warnings)
	res.Explanations = explanations
	res.Confidence = synth.Confidence(rels)
	res.Source = schema.SourceFallback
	return res
}

// assemble fills the fields both paths compute the same way.
func (r *run) assemble(w *Workspace, s schema.Collections, rels map[string]schema.Decision, before, after schema.Metrics) *schema.Result {
	outcome := decide.Decide(r.text, decide.Labels(rels))
	d := diff.Compute(r.oldSchema, s)
	entities := nonNil(w.Entities)
	return &schema.Result{
		Entities:           entities,
		Relationships:      rels,
		Decisions:          w.Decisions,
		WhyNot:             synth.WhyNot(rels),
		FutureRiskScore:    outcome.Risk(),
		PerformanceIndex:   outcome.Performance(),
		QueryCostAnalysis:  outcome.QueryCosts,
		GrowthRiskMap:      outcome.Growth,
		AutoSharding:       decide.SuggestSharding(entities),
		Schema:             s,
		AccessPattern:      r.workload,
		Metrics:            &after,
		Diff:               &d,
		GenerationAttempts: r.out.Attempts,
	}
}

func collectionNames(c schema.Collections) []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func toAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
