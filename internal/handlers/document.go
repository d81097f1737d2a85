package handlers

import (
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	scopeService    *services.ScopeService
}

func NewDocumentHandler(db *gorm.DB, billing *services.BillingService) *DocumentHandler {
	return &DocumentHandler{
		documentService: services.NewDocumentService(db, billing),
		scopeService:    services.NewScopeService(db),
	}
}

// List returns the documents visible to the caller
// GET /api/teams/:teamId/documents
func (h *DocumentHandler) List(c *gin.Context) {
	teamID, _, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	docs, err := h.documentService.List(teamID, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, docs)
}

// Create registers an uploaded document
// POST /api/teams/:teamId/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Create(m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Update renames a document
// PUT /api/teams/:teamId/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Update(id, m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, doc)
}

// Delete removes a document
// DELETE /api/teams/:teamId/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.documentService.Remove(id, m, v); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "document removed"})
}
