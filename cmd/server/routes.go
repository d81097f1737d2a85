package main

import (
	"github.com/braikhq/braik/internal/handlers"
	"github.com/braikhq/braik/internal/middleware"
	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()

	// Rate limiters for the unauthenticated webhook and the AI endpoints
	webhookLimiter := middleware.NewRateLimiter(svc.cfg.RateLimit.WebhookRPS, svc.cfg.RateLimit.WebhookBurst)
	aiLimiter := middleware.NewRateLimiter(svc.cfg.RateLimit.AIRPS, svc.cfg.RateLimit.AIBurst)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	authHandler := handlers.NewAuthHandler(db, svc.cfg)
	teamHandler := handlers.NewTeamHandler(db)
	eventHandler := handlers.NewEventHandler(db, svc.billingService, svc.notifier)
	documentHandler := handlers.NewDocumentHandler(db, svc.billingService)
	inventoryHandler := handlers.NewInventoryHandler(db, svc.billingService)
	playHandler := handlers.NewPlayHandler(db, svc.billingService)
	depthChartHandler := handlers.NewDepthChartHandler(db, svc.billingService)
	messageHandler := handlers.NewMessageHandler(db, svc.billingService, svc.notifier)
	aiHandler := handlers.NewAIHandler(svc.assistant, services.NewScopeService(db))
	billingHandler := handlers.NewBillingHandler(db, svc.billingService, svc.cfg.Stripe.WebhookSecret)
	auditHandler := handlers.NewAuditHandler(db)
	notificationHandler := handlers.NewNotificationHandler(svc.notifier)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Stripe webhook (public with signature verification, rate limited)
		api.POST("/webhooks/stripe", webhookLimiter.Middleware(), billingHandler.StripeWebhook)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", authHandler.GetCurrentUser)
			protected.POST("/auth/logout", authHandler.Logout)
			protected.POST("/auth/change-password", authHandler.ChangePassword)

			// Notifications (cross-team, per user)
			protected.GET("/notifications", notificationHandler.List)
			protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)

			// Teams
			protected.POST("/teams", teamHandler.Create)
			protected.POST("/teams/join", teamHandler.Join)
			protected.GET("/teams", teamHandler.List)
			protected.GET("/teams/:teamId", teamHandler.Get)
			protected.GET("/teams/:teamId/members", teamHandler.Members)
			protected.PUT("/teams/:teamId/members/:userId/role", teamHandler.AssignRole)
			protected.GET("/teams/:teamId/roster", teamHandler.Roster)
			protected.POST("/teams/:teamId/roster", teamHandler.AddPlayer)
			protected.POST("/teams/:teamId/roster/guardians", teamHandler.LinkGuardian)

			// Events
			protected.GET("/teams/:teamId/events", eventHandler.List)
			protected.GET("/teams/:teamId/events/:id", eventHandler.Get)
			protected.POST("/teams/:teamId/events", eventHandler.Create)
			protected.PUT("/teams/:teamId/events/:id", eventHandler.Update)
			protected.DELETE("/teams/:teamId/events/:id", eventHandler.Delete)

			// Documents
			protected.GET("/teams/:teamId/documents", documentHandler.List)
			protected.POST("/teams/:teamId/documents", documentHandler.Create)
			protected.PUT("/teams/:teamId/documents/:id", documentHandler.Update)
			protected.DELETE("/teams/:teamId/documents/:id", documentHandler.Delete)

			// Inventory
			protected.GET("/teams/:teamId/inventory", inventoryHandler.List)
			protected.POST("/teams/:teamId/inventory", inventoryHandler.Create)
			protected.PUT("/teams/:teamId/inventory/:id", inventoryHandler.Update)
			protected.DELETE("/teams/:teamId/inventory/:id", inventoryHandler.Delete)

			// Plays
			protected.GET("/teams/:teamId/plays", playHandler.List)
			protected.POST("/teams/:teamId/plays", playHandler.Create)
			protected.PUT("/teams/:teamId/plays/:id", playHandler.Update)
			protected.DELETE("/teams/:teamId/plays/:id", playHandler.Delete)

			// Depth chart
			protected.GET("/teams/:teamId/depth-chart/:unit", depthChartHandler.Get)
			protected.PUT("/teams/:teamId/depth-chart", depthChartHandler.Replace)

			// Messaging
			protected.GET("/teams/:teamId/threads", messageHandler.ListThreads)
			protected.POST("/teams/:teamId/threads", messageHandler.CreateThread)
			protected.GET("/teams/:teamId/threads/:id/messages", messageHandler.Messages)
			protected.POST("/teams/:teamId/threads/:id/messages", messageHandler.Send)

			// AI assistant (rate limited on top of auth)
			ai := protected.Group("", aiLimiter.Middleware())
			{
				ai.POST("/teams/:teamId/ai/ask", aiHandler.Ask)
				ai.GET("/teams/:teamId/ai/proposals", aiHandler.ListProposals)
				ai.POST("/teams/:teamId/ai/proposals/:id/confirm", aiHandler.Confirm)
				ai.POST("/teams/:teamId/ai/proposals/:id/reject", aiHandler.Reject)
			}

			// Billing
			protected.GET("/teams/:teamId/billing", billingHandler.Status)

			// Audit trail
			protected.GET("/teams/:teamId/audit", auditHandler.List)
		}

		// Platform owner routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.PlatformOwnerRequired())
		{
			admin.PUT("/teams/:teamId/lock", billingHandler.SetLocked)
		}
	}
}
