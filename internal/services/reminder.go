package services

import (
	"fmt"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService runs a daily sweep: event reminders for tomorrow's schedule
// and billing nudges for teams that have slipped into read-only.
type ReminderService struct {
	db            *gorm.DB
	billing       *BillingService
	notifier      *NotificationService
	cronScheduler *cron.Cron
}

func NewReminderService(db *gorm.DB, billing *BillingService, notifier *NotificationService) *ReminderService {
	return &ReminderService{db: db, billing: billing, notifier: notifier}
}

func (s *ReminderService) StartScheduler() {
	s.cronScheduler = cron.New()

	// 07:00 daily, server time.
	if _, err := s.cronScheduler.AddFunc("0 7 * * *", func() {
		s.RunSweep()
	}); err != nil {
		logger.Errorf("[Reminder] Failed to add cron job: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[Reminder] Scheduler started")
}

func (s *ReminderService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// RunSweep executes both reminder passes. Exposed for manual triggering.
func (s *ReminderService) RunSweep() {
	s.sweepUpcomingEvents()
	s.sweepBillingState()
}

// sweepUpcomingEvents notifies each team about events starting tomorrow.
func (s *ReminderService) sweepUpcomingEvents() {
	start := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	var events []models.Event
	if err := s.db.Where("starts_at >= ? AND starts_at < ?", start, end).Find(&events).Error; err != nil {
		logger.Errorf("[Reminder] Event sweep query failed: %v", err)
		return
	}

	for _, e := range events {
		title := fmt.Sprintf("Reminder: %s tomorrow at %s", e.Title, e.StartsAt.Format("15:04"))
		s.notifier.NotifyTeam(e.TeamID, 0, "event_reminder", title)
	}

	if len(events) > 0 {
		logger.Infof("[Reminder] Sent reminders for %d upcoming events", len(events))
	}
}

// sweepBillingState nudges head coaches of teams that are read-only.
func (s *ReminderService) sweepBillingState() {
	var teams []models.Team
	if err := s.db.Find(&teams).Error; err != nil {
		logger.Errorf("[Reminder] Billing sweep query failed: %v", err)
		return
	}

	nudged := 0
	for _, t := range teams {
		state, err := s.billing.State(t.ID)
		if err != nil || state != BillingReadOnly {
			continue
		}

		var headCoachIDs []uint
		err = s.db.Model(&models.Membership{}).
			Where("team_id = ? AND role = ?", t.ID, string(permissions.RoleHeadCoach)).
			Pluck("user_id", &headCoachIDs).Error
		if err != nil || len(headCoachIDs) == 0 {
			continue
		}

		s.notifier.NotifyUsers(t.ID, headCoachIDs, "billing_reminder",
			"Your team is read-only until the subscription balance is paid", "")
		nudged++
	}

	if nudged > 0 {
		logger.Infof("[Reminder] Nudged %d read-only teams", nudged)
	}
}
