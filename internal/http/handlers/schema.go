package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/http/response"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/ctxutil"
	"github.com/yungbote/mongoarchitect-backend/internal/services"
)

var errSchemaNotFound = errors.New("Schema not found")

type SchemaHandler struct {
	schemas services.SchemaService
}

func NewSchemaHandler(schemas services.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemas: schemas}
}

type generateRequest struct {
	InputText    string `json:"inputText"`
	WorkloadType string `json:"workloadType"`
}

type refineRequest struct {
	SchemaID       string `json:"schemaId"`
	RefinementText string `json:"refinementText"`
	WorkloadType   string `json:"workloadType"`
}

// POST /api/schemas/generate
func (h *SchemaHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	rec, err := h.schemas.Generate(dbctx.Context{Ctx: ctx}, ctxutil.OwnerID(ctx), req.InputText, req.WorkloadType)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// POST /api/schemas/refine
func (h *SchemaHandler) Refine(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(req.SchemaID))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "schema_not_found", errSchemaNotFound)
		return
	}
	ctx := c.Request.Context()
	rec, err := h.schemas.Refine(dbctx.Context{Ctx: ctx}, ctxutil.OwnerID(ctx), id, req.RefinementText, req.WorkloadType)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// GET /api/schemas/history?limit=N
func (h *SchemaHandler) History(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	ctx := c.Request.Context()
	recs, err := h.schemas.History(dbctx.Context{Ctx: ctx}, ctxutil.OwnerID(ctx), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, recs)
}

// GET /api/schemas/:id
func (h *SchemaHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "schema_not_found", errSchemaNotFound)
		return
	}
	ctx := c.Request.Context()
	rec, err := h.schemas.Get(dbctx.Context{Ctx: ctx}, ctxutil.OwnerID(ctx), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// GET /api/schemas/:id/lineage
func (h *SchemaHandler) Lineage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "schema_not_found", errSchemaNotFound)
		return
	}
	ctx := c.Request.Context()
	recs, err := h.schemas.Lineage(dbctx.Context{Ctx: ctx}, ctxutil.OwnerID(ctx), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, recs)
}
