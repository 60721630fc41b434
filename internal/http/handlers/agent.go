package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mongoarchitect-backend/internal/http/response"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/ctxutil"
	"github.com/yungbote/mongoarchitect-backend/internal/services"
)

type AgentHandler struct {
	agent services.AgentService
}

func NewAgentHandler(agent services.AgentService) *AgentHandler {
	return &AgentHandler{agent: agent}
}

type agentChatRequest struct {
	Message  string `json:"message"`
	SchemaID string `json:"schemaId"`
}

// POST /api/agent/chat
func (h *AgentHandler) Chat(c *gin.Context) {
	var req agentChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	reply, err := h.agent.Chat(ctx, ctxutil.OwnerID(ctx), req.Message, req.SchemaID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, reply)
}

// POST /api/agent/reset
func (h *AgentHandler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.agent.Reset(ctx, ctxutil.OwnerID(ctx)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Agent conversation reset successfully"})
}
