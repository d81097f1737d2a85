package main

import (
	"github.com/braikhq/braik/internal/config"
	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/internal/utils"
	"github.com/braikhq/braik/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg             *config.Config
	billingService  *services.BillingService
	notifier        *services.NotificationService
	reminderService *services.ReminderService
	assistant       *services.AIAssistantService
	taskQueue       services.TaskQueue
	worker          *services.Worker
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	db := models.GetDB()

	// Audit sink and retention
	services.InitAudit(db)
	services.StartAuditCleanupScheduler(db, 90)

	// Task queue (uses Redis if enabled, otherwise sync mode) and notifications
	taskQueue := services.InitTaskQueue(cfg)
	notifier := services.NewNotificationService(db, taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notifier.Deliver)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notifier.Deliver)
			worker.Start()
		}
	}

	billingService := services.NewBillingService(db, cfg.Platform.AIEnabled)

	// Daily reminder sweep (event reminders, billing nudges)
	reminderService := services.NewReminderService(db, billingService, notifier)
	reminderService.StartScheduler()

	// AI assistant
	llmClient := services.NewLLMClient(&cfg.LLM)
	eventService := services.NewEventService(db, billingService, notifier)
	assistant := services.NewAIAssistantService(db, llmClient, billingService, eventService, notifier)

	return &appServices{
		cfg:             cfg,
		billingService:  billingService,
		notifier:        notifier,
		reminderService: reminderService,
		assistant:       assistant,
		taskQueue:       taskQueue,
		worker:          worker,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.reminderService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
