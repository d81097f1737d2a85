package services

import (
	"context"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/pkg/logger"
	"gorm.io/gorm"
)

// NotificationService fans notices out through the task queue and serves the
// per-user inbox.
type NotificationService struct {
	db    *gorm.DB
	queue TaskQueue
}

func NewNotificationService(db *gorm.DB, queue TaskQueue) *NotificationService {
	return &NotificationService{db: db, queue: queue}
}

// Deliver writes one notification row per recipient. This is the queue
// processor; it runs on the worker (or inline in sync mode).
func (s *NotificationService) Deliver(ctx context.Context, task *NotifyTask) error {
	for _, uid := range task.RecipientIDs {
		n := &models.Notification{
			TeamID: task.TeamID,
			UserID: uid,
			Kind:   task.Kind,
			Title:  task.Title,
		}
		if task.Body != "" {
			n.Body = task.Body
		}
		if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
			logger.Warn().Err(err).Uint("user_id", uid).Msg("notification write failed")
		}
	}
	return nil
}

// NotifyTeam enqueues a notice for every member of the team except the actor.
func (s *NotificationService) NotifyTeam(teamID, actorID uint, kind, title string) {
	var userIDs []uint
	err := s.db.Model(&models.Membership{}).
		Where("team_id = ? AND user_id <> ?", teamID, actorID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		logger.Warn().Err(err).Uint("team_id", teamID).Msg("notification recipient lookup failed")
		return
	}
	s.NotifyUsers(teamID, userIDs, kind, title, "")
}

// NotifyUsers enqueues a notice for the given recipients.
func (s *NotificationService) NotifyUsers(teamID uint, recipientIDs []uint, kind, title, body string) {
	if len(recipientIDs) == 0 || s.queue == nil {
		return
	}
	task := &NotifyTask{
		TeamID:       teamID,
		RecipientIDs: recipientIDs,
		Kind:         kind,
		Title:        title,
		Body:         body,
	}
	if err := s.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("notification enqueue failed")
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var items []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(id, userID uint) error {
	now := time.Now()
	return s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", &now).Error
}

// MarkAllRead marks every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(userID uint) error {
	now := time.Now()
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now).Error
}
