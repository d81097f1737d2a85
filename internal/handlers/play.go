package handlers

import (
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PlayHandler struct {
	playService  *services.PlayService
	scopeService *services.ScopeService
}

func NewPlayHandler(db *gorm.DB, billing *services.BillingService) *PlayHandler {
	return &PlayHandler{
		playService:  services.NewPlayService(db, billing),
		scopeService: services.NewScopeService(db),
	}
}

// GET /api/teams/:teamId/plays
func (h *PlayHandler) List(c *gin.Context) {
	teamID, _, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	plays, err := h.playService.List(teamID, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, plays)
}

// POST /api/teams/:teamId/plays
func (h *PlayHandler) Create(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.CreatePlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	play, err := h.playService.Create(m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, play)
}

// PUT /api/teams/:teamId/plays/:id
func (h *PlayHandler) Update(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdatePlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	play, err := h.playService.Update(id, m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, play)
}

// DELETE /api/teams/:teamId/plays/:id
func (h *PlayHandler) Delete(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.playService.Remove(id, m, v); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "play removed"})
}
