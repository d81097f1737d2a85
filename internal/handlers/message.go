package handlers

import (
	"github.com/braikhq/braik/internal/middleware"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandler struct {
	messageService *services.MessageService
	scopeService   *services.ScopeService
}

func NewMessageHandler(db *gorm.DB, billing *services.BillingService, notifier *services.NotificationService) *MessageHandler {
	return &MessageHandler{
		messageService: services.NewMessageService(db, billing, notifier),
		scopeService:   services.NewScopeService(db),
	}
}

// CreateThread starts a conversation
// POST /api/teams/:teamId/threads
func (h *MessageHandler) CreateThread(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	thread, err := h.messageService.CreateThread(m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thread)
}

// ListThreads returns the caller's threads
// GET /api/teams/:teamId/threads
func (h *MessageHandler) ListThreads(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	threads, err := h.messageService.ListThreads(teamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, threads)
}

// Messages returns a thread's posts
// GET /api/teams/:teamId/threads/:id/messages
func (h *MessageHandler) Messages(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}
	threadID, ok := idParam(c)
	if !ok {
		return
	}

	messages, err := h.messageService.Messages(threadID, teamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

// Send posts to a thread
// POST /api/teams/:teamId/threads/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	threadID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messageService.Send(threadID, m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}
