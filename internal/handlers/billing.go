package handlers

import (
	"io"

	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BillingHandler struct {
	billingService *services.BillingService
	webhookService *services.BillingWebhookService
	scopeService   *services.ScopeService
}

func NewBillingHandler(db *gorm.DB, billing *services.BillingService, webhookSecret string) *BillingHandler {
	return &BillingHandler{
		billingService: billing,
		webhookService: services.NewBillingWebhookService(db, webhookSecret),
		scopeService:   services.NewScopeService(db),
	}
}

// Status returns the team's billing facts and derived state
// GET /api/teams/:teamId/billing
func (h *BillingHandler) Status(c *gin.Context) {
	teamID, m, _, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	if !permissions.CanViewPayments(m.Role) {
		response.Forbidden(c, "your role cannot view billing details")
		return
	}

	status, err := h.billingService.Status(teamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

type setLockedRequest struct {
	Locked bool `json:"locked"`
}

// SetLocked flips a team's platform suspension flag. Guarded by the platform
// owner middleware on the route.
// PUT /api/admin/teams/:teamId/lock
func (h *BillingHandler) SetLocked(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	var req setLockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.billingService.SetLocked(teamID, req.Locked); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"locked": req.Locked})
}

// StripeWebhook receives payment events from Stripe
// POST /api/webhooks/stripe
func (h *BillingHandler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "error reading request body")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.webhookService.HandleEvent(body, sig); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"received": true})
}
