package handlers

import (
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	scopeService     *services.ScopeService
}

func NewInventoryHandler(db *gorm.DB, billing *services.BillingService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: services.NewInventoryService(db, billing),
		scopeService:     services.NewScopeService(db),
	}
}

// GET /api/teams/:teamId/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	teamID, _, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	items, err := h.inventoryService.List(teamID, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// POST /api/teams/:teamId/inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.inventoryService.Create(m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// PUT /api/teams/:teamId/inventory/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.inventoryService.Update(id, m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// DELETE /api/teams/:teamId/inventory/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.inventoryService.Remove(id, m, v); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "inventory item removed"})
}
