package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/compare"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/apierr"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

// ComparisonEngine generates a schema in the voice of one model.
type ComparisonEngine interface {
	GenerateForModel(ctx context.Context, completer llm.Completer, m compare.Model, text, workload string) *schema.Result
}

// ProviderClients resolves the completer serving a provider.
type ProviderClients func(provider string) (llm.Completer, error)

type ModelSchema struct {
	Model    string         `json:"model"`
	Name     string         `json:"name"`
	Provider string         `json:"provider"`
	Result   *schema.Result `json:"result"`
}

type CompareResult struct {
	Model1     ModelSchema        `json:"model1"`
	Model2     ModelSchema        `json:"model2"`
	Comparison compare.Comparison `json:"comparison"`
}

type StoredComparison struct {
	Left       uuid.UUID          `json:"left"`
	Right      uuid.UUID          `json:"right"`
	Comparison compare.Comparison `json:"comparison"`
}

type CompareService interface {
	Models() []compare.Model
	Compare(ctx context.Context, text, workload, model1, model2 string) (*CompareResult, error)
	CompareStored(dbc dbctx.Context, ownerID string, leftID, rightID uuid.UUID) (*StoredComparison, error)
}

type compareService struct {
	log      *logger.Logger
	engine   ComparisonEngine
	clients  ProviderClients
	fallback llm.Completer
	schemas  SchemaService
}

// NewCompareService wires model comparison. A provider clients cannot serve
// is answered by fallback, which may be nil.
func NewCompareService(log *logger.Logger, engine ComparisonEngine, clients ProviderClients, fallback llm.Completer, schemas SchemaService) CompareService {
	return &compareService{
		log:      log.With("service", "CompareService"),
		engine:   engine,
		clients:  clients,
		fallback: fallback,
		schemas:  schemas,
	}
}

var errCompareInput = apierr.New(http.StatusBadRequest, "invalid_input", errors.New("input text is required"))

func unknownModel(id string) error {
	return apierr.New(http.StatusBadRequest, "invalid_model", fmt.Errorf("unknown model %q", id))
}

func (s *compareService) Models() []compare.Model { return compare.Models() }

// Compare generates one schema per model concurrently and compares them.
func (s *compareService) Compare(ctx context.Context, text, workload, model1, model2 string) (*CompareResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errCompareInput
	}
	left, ok := compare.Lookup(model1)
	if !ok {
		return nil, unknownModel(model1)
	}
	right, ok := compare.Lookup(model2)
	if !ok {
		return nil, unknownModel(model2)
	}
	workload = strings.TrimSpace(workload)
	if workload == "" {
		workload = DefaultWorkload
	}

	out := &CompareResult{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Model1 = s.generate(gctx, left, text, workload)
		return nil
	})
	g.Go(func() error {
		out.Model2 = s.generate(gctx, right, text, workload)
		return nil
	})
	_ = g.Wait()

	out.Comparison = compare.Detailed(out.Model1.Result, out.Model2.Result)
	s.log.Info("models compared",
		"model1", left.ID,
		"model2", right.ID,
		"similarity", out.Comparison.Summary.SimilarityScore,
	)
	return out, nil
}

func (s *compareService) generate(ctx context.Context, m compare.Model, text, workload string) ModelSchema {
	return ModelSchema{
		Model:    m.ID,
		Name:     m.Name,
		Provider: m.Provider,
		Result:   s.engine.GenerateForModel(ctx, s.client(m), m, text, workload),
	}
}

func (s *compareService) client(m compare.Model) llm.Completer {
	if s.clients == nil {
		return s.fallback
	}
	c, err := s.clients(m.Provider)
	if err != nil || c == nil {
		s.log.Warn("provider unavailable for comparison, using default client", "model", m.ID, "provider", m.Provider, "error", err)
		return s.fallback
	}
	return c
}

// CompareStored compares two stored versions owned by ownerID.
func (s *compareService) CompareStored(dbc dbctx.Context, ownerID string, leftID, rightID uuid.UUID) (*StoredComparison, error) {
	left, err := s.decoded(dbc, ownerID, leftID)
	if err != nil {
		return nil, err
	}
	right, err := s.decoded(dbc, ownerID, rightID)
	if err != nil {
		return nil, err
	}
	return &StoredComparison{Left: leftID, Right: rightID, Comparison: compare.Detailed(left, right)}, nil
}

func (s *compareService) decoded(dbc dbctx.Context, ownerID string, id uuid.UUID) (*schema.Result, error) {
	rec, err := s.schemas.Get(dbc, ownerID, id)
	if err != nil {
		return nil, err
	}
	res, err := rec.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", id, err)
	}
	return res, nil
}
