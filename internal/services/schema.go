package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/data/repos"
	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	perrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/apierr"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

const DefaultWorkload = "balanced"

// SchemaEngine is the decision engine as the services see it. Neither call
// fails; degraded results carry warnings instead.
type SchemaEngine interface {
	GenerateSchema(ctx context.Context, text, workload string) *schema.Result
	ApplyRefinement(ctx context.Context, prev *schema.Result, text, workload string) *schema.Result
}

type SchemaService interface {
	Generate(dbc dbctx.Context, ownerID, text, workload string) (*schema.Record, error)
	Refine(dbc dbctx.Context, ownerID string, parentID uuid.UUID, text, workload string) (*schema.Record, error)
	Get(dbc dbctx.Context, ownerID string, id uuid.UUID) (*schema.Record, error)
	History(dbc dbctx.Context, ownerID string, limit int) ([]*schema.Record, error)
	Lineage(dbc dbctx.Context, ownerID string, id uuid.UUID) ([]*schema.Record, error)
}

type schemaService struct {
	log     *logger.Logger
	engine  SchemaEngine
	history repos.SchemaHistoryRepo
}

func NewSchemaService(log *logger.Logger, engine SchemaEngine, history repos.SchemaHistoryRepo) SchemaService {
	return &schemaService{
		log:     log.With("service", "SchemaService"),
		engine:  engine,
		history: history,
	}
}

var (
	errSchemaNotFound = apierr.New(http.StatusNotFound, "schema_not_found", errors.New("Schema not found"))
	errEmptyInput     = apierr.New(http.StatusBadRequest, "invalid_input", errors.New("input text is required"))
	errEmptyRefine    = apierr.New(http.StatusBadRequest, "invalid_input", errors.New("refinement text is required"))
)

func (s *schemaService) Generate(dbc dbctx.Context, ownerID, text, workload string) (*schema.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyInput
	}
	workload = strings.TrimSpace(workload)
	if workload == "" {
		workload = DefaultWorkload
	}

	res := s.engine.GenerateSchema(dbc.Ctx, text, workload)
	rec, err := schema.NewRecord(ownerID, text, workload, res)
	if err != nil {
		return nil, fmt.Errorf("encode schema result: %w", err)
	}
	created, err := s.history.Create(dbc, rec)
	if err != nil {
		s.log.Error("persist generated schema failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("persist schema: %w", err)
	}
	s.log.Info("schema generated", "owner_id", ownerID, "schema_id", created.ID, "source", res.Source)
	return created, nil
}

func (s *schemaService) Refine(dbc dbctx.Context, ownerID string, parentID uuid.UUID, text, workload string) (*schema.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyRefine
	}
	parent, err := s.Get(dbc, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	prev, err := parent.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode parent schema: %w", err)
	}

	workload = strings.TrimSpace(workload)
	if workload == "" {
		workload = parent.WorkloadType
	}
	if workload == "" {
		workload = DefaultWorkload
	}

	res := s.engine.ApplyRefinement(dbc.Ctx, prev, text, workload)
	combined := strings.TrimSpace(parent.InputText) + "\nRefinement: " + text
	rec, err := schema.NewRecord(ownerID, combined, workload, res)
	if err != nil {
		return nil, fmt.Errorf("encode schema result: %w", err)
	}
	pid := parent.ID
	rec.ParentID = &pid
	rec.Version = parent.Version + 1
	rec.RefinementText = text
	rec.RootID = parent.RootID
	if rec.RootID == uuid.Nil {
		rec.RootID = parent.ID
	}

	created, err := s.history.Create(dbc, rec)
	if err != nil {
		s.log.Error("persist refined schema failed", "owner_id", ownerID, "parent_id", parent.ID, "error", err)
		return nil, fmt.Errorf("persist schema: %w", err)
	}
	s.log.Info("schema refined",
		"owner_id", ownerID,
		"schema_id", created.ID,
		"parent_id", parent.ID,
		"version", created.Version,
		"source", res.Source,
	)
	return created, nil
}

func (s *schemaService) Get(dbc dbctx.Context, ownerID string, id uuid.UUID) (*schema.Record, error) {
	if id == uuid.Nil {
		return nil, errSchemaNotFound
	}
	rec, err := s.history.GetByID(dbc, ownerID, id)
	if errors.Is(err, perrors.ErrNotFound) {
		return nil, errSchemaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return rec, nil
}

func (s *schemaService) History(dbc dbctx.Context, ownerID string, limit int) ([]*schema.Record, error) {
	recs, err := s.history.ListLatestPerRoot(dbc, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list schema history: %w", err)
	}
	return recs, nil
}

// Lineage returns the whole refinement chain the record belongs to.
func (s *schemaService) Lineage(dbc dbctx.Context, ownerID string, id uuid.UUID) ([]*schema.Record, error) {
	rec, err := s.Get(dbc, ownerID, id)
	if err != nil {
		return nil, err
	}
	root := rec.RootID
	if root == uuid.Nil {
		root = rec.ID
	}
	recs, err := s.history.ListLineage(dbc, ownerID, root)
	if err != nil {
		return nil, fmt.Errorf("list lineage: %w", err)
	}
	return recs, nil
}
