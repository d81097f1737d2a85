package handlers

import (
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DepthChartHandler struct {
	depthChartService *services.DepthChartService
	scopeService      *services.ScopeService
}

func NewDepthChartHandler(db *gorm.DB, billing *services.BillingService) *DepthChartHandler {
	return &DepthChartHandler{
		depthChartService: services.NewDepthChartService(db, billing),
		scopeService:      services.NewScopeService(db),
	}
}

// Get returns one unit's depth chart
// GET /api/teams/:teamId/depth-chart/:unit
func (h *DepthChartHandler) Get(c *gin.Context) {
	teamID, _, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	chart, err := h.depthChartService.Get(teamID, c.Param("unit"), v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chart)
}

// Replace swaps a unit's depth chart wholesale
// PUT /api/teams/:teamId/depth-chart
func (h *DepthChartHandler) Replace(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.ReplaceDepthChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chart, err := h.depthChartService.Replace(m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chart)
}
