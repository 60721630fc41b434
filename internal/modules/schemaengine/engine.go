// Package schemaengine turns free-text requirements into versioned MongoDB
// schema designs and refines existing designs from change requests. Both
// operations always return a result: generative failures fall back to the
// rule-based pipeline.
package schemaengine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/refine"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

const (
	operationGenerate = "generate"
	operationRefine   = "refine"
)

type Engine struct {
	llm     llm.Completer
	log     *logger.Logger
	metrics *observability.Metrics
	refiner *refine.Orchestrator

	// Now and NewID stamp version metadata.
	Now   func() time.Time
	NewID func() string
}

// New builds an engine. completer may be nil, in which case every request is
// served by the rule-based pipeline.
func New(completer llm.Completer, log *logger.Logger, metrics *observability.Metrics) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		llm:     completer,
		log:     log.With("service", "SchemaEngine"),
		metrics: metrics,
		refiner: refine.New(completer, log, metrics),
		Now:     func() time.Time { return time.Now().UTC() },
		NewID:   uuid.NewString,
	}
}

// ApplyRefinement derives the next version of prev from a change request.
// prev is never modified.
func (e *Engine) ApplyRefinement(ctx context.Context, prev *schema.Result, text, workload string) *schema.Result {
	ctx, span := observability.Tracer().Start(ctx, "schemaengine.refine")
	defer span.End()

	run := e.refiner.Run(ctx, prev, text, workload)
	res := run.Result
	e.stamp(res, prev)

	if run.Err != nil {
		span.RecordError(run.Err)
	}
	e.finish(span, operationRefine, res)
	e.log.Info("schema refined",
		"source", res.Source,
		"attempts", run.Attempts,
		"version", res.SchemaVersion,
		"commands", len(run.Commands),
	)
	return res
}

func (e *Engine) stamp(res *schema.Result, prev *schema.Result) {
	nextVersion(prev, e.Now(), e.NewID()).Apply(res)
}

func (e *Engine) finish(span trace.Span, operation string, res *schema.Result) {
	span.SetAttributes(
		attribute.String("source", string(res.Source)),
		attribute.Int("attempts", res.GenerationAttempts),
		attribute.Int("schema.version", res.SchemaVersion),
	)
	if res.Source == schema.SourceFallback {
		span.SetStatus(codes.Error, "fallback")
	}
	e.metrics.IncSchemaResult(operation, string(res.Source))
}
