package handlers

import (
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuditHandler struct {
	auditService *services.AuditService
	scopeService *services.ScopeService
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{
		auditService: services.NewAuditService(db),
		scopeService: services.NewScopeService(db),
	}
}

// List returns the team's audit trail. Head coach only.
// GET /api/teams/:teamId/audit
func (h *AuditHandler) List(c *gin.Context) {
	teamID, m, _, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	if !permissions.CanManageTeam(m.Role) {
		response.Forbidden(c, "only the head coach can view the audit trail")
		return
	}

	var req services.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auditService.List(teamID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
