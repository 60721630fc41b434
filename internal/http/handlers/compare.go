package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/http/response"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/ctxutil"
	"github.com/yungbote/mongoarchitect-backend/internal/services"
)

type CompareHandler struct {
	compare services.CompareService
}

func NewCompareHandler(compare services.CompareService) *CompareHandler {
	return &CompareHandler{compare: compare}
}

type compareRequest struct {
	InputText    string `json:"inputText"`
	WorkloadType string `json:"workloadType"`
	Model1       string `json:"model1"`
	Model2       string `json:"model2"`
}

// GET /api/compare/models
func (h *CompareHandler) Models(c *gin.Context) {
	response.RespondOK(c, gin.H{"models": h.compare.Models()})
}

// POST /api/compare
func (h *CompareHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.compare.Compare(c.Request.Context(), req.InputText, req.WorkloadType, req.Model1, req.Model2)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/compare/schemas?left=ID&right=ID
func (h *CompareHandler) CompareStored(c *gin.Context) {
	left, err := uuid.Parse(strings.TrimSpace(c.Query("left")))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "schema_not_found", errSchemaNotFound)
		return
	}
	right, err := uuid.Parse(strings.TrimSpace(c.Query("right")))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "schema_not_found", errSchemaNotFound)
		return
	}
	ctx := c.Request.Context()
	out, err := h.compare.CompareStored(dbctx.Context{Ctx: ctx}, ctxutil.OwnerID(ctx), left, right)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
