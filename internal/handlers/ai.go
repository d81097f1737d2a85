package handlers

import (
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	assistant    *services.AIAssistantService
	scopeService *services.ScopeService
}

func NewAIHandler(assistant *services.AIAssistantService, scopes *services.ScopeService) *AIHandler {
	return &AIHandler{assistant: assistant, scopeService: scopes}
}

// Ask sends a question to the assistant
// POST /api/teams/:teamId/ai/ask
func (h *AIHandler) Ask(c *gin.Context) {
	_, m, _, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.assistant.Ask(c.Request.Context(), m, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ListProposals lists the team's assistant proposals
// GET /api/teams/:teamId/ai/proposals
func (h *AIHandler) ListProposals(c *gin.Context) {
	teamID, m, _, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	proposals, err := h.assistant.ListProposals(teamID, m, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, proposals)
}

// Confirm executes a pending proposal
// POST /api/teams/:teamId/ai/proposals/:id/confirm
func (h *AIHandler) Confirm(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	proposal, err := h.assistant.Confirm(id, m, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, proposal)
}

// Reject marks a pending proposal as rejected
// POST /api/teams/:teamId/ai/proposals/:id/reject
func (h *AIHandler) Reject(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	proposal, err := h.assistant.Reject(id, m, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, proposal)
}
