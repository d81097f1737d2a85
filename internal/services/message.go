package services

import (
	"errors"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

// MessageService manages threads and posts. On youth and middle school teams
// a player cannot be messaged without their guardians seeing it: guardians
// are auto-added to any thread their child joins, as read-only participants.
type MessageService struct {
	db       *gorm.DB
	scopes   *ScopeService
	billing  *BillingService
	notifier *NotificationService
}

func NewMessageService(db *gorm.DB, billing *BillingService, notifier *NotificationService) *MessageService {
	return &MessageService{
		db:       db,
		scopes:   NewScopeService(db),
		billing:  billing,
		notifier: notifier,
	}
}

type CreateThreadRequest struct {
	Subject        string `json:"subject"`
	ParticipantIDs []uint `json:"participant_ids" binding:"required"`
	Body           string `json:"body" binding:"required"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type ThreadResponse struct {
	models.MessageThread
	Participants []models.ThreadParticipant `json:"participants"`
	LastMessage  *models.Message            `json:"last_message,omitempty"`
}

// CreateThread opens a thread, adds the participants, and posts the first
// message. Guardians of any player participant are pulled in read-only when
// the team's school level requires it.
func (s *MessageService) CreateThread(m permissions.Member, v permissions.Viewer, req *CreateThreadRequest) (*ThreadResponse, error) {
	if _, err := s.billing.Require(m.TeamID, ActionMessage); err != nil {
		return nil, err
	}

	// Parents cannot start threads; they observe the threads their children
	// are in.
	if m.Role == permissions.RoleParent {
		return nil, denyAndAudit(m.TeamID, v, "messages", "create_thread",
			&permissions.Denial{Reason: "parents cannot start message threads"})
	}

	// Every participant must belong to the team.
	var memberCount int64
	if err := s.db.Model(&models.Membership{}).
		Where("team_id = ? AND user_id IN ?", m.TeamID, req.ParticipantIDs).
		Count(&memberCount).Error; err != nil {
		return nil, err
	}
	if memberCount != int64(len(req.ParticipantIDs)) {
		return nil, response.NewBadRequest("all participants must be members of the team")
	}

	var team models.Team
	if err := s.db.First(&team, m.TeamID).Error; err != nil {
		return nil, err
	}

	var thread models.MessageThread
	err := s.db.Transaction(func(tx *gorm.DB) error {
		thread = models.MessageThread{
			TeamID:    m.TeamID,
			CreatedBy: m.UserID,
			Subject:   req.Subject,
		}
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}

		added := map[uint]bool{}
		addParticipant := func(userID uint, readOnly, autoAdded bool) error {
			if added[userID] {
				return nil
			}
			added[userID] = true
			return tx.Create(&models.ThreadParticipant{
				ThreadID:  thread.ID,
				UserID:    userID,
				ReadOnly:  readOnly,
				AutoAdded: autoAdded,
			}).Error
		}

		if err := addParticipant(m.UserID, false, false); err != nil {
			return err
		}
		for _, uid := range req.ParticipantIDs {
			if err := addParticipant(uid, false, false); err != nil {
				return err
			}
		}

		// Guardian auto-add for minor players.
		if guardiansRequired(team.SchoolLevel) {
			guardianIDs, err := s.guardiansOfParticipants(tx, m.TeamID, req.ParticipantIDs)
			if err != nil {
				return err
			}
			for _, gid := range guardianIDs {
				if err := addParticipant(gid, true, true); err != nil {
					return err
				}
			}
		}

		msg := &models.Message{
			ThreadID: thread.ID,
			SenderID: m.UserID,
			Body:     req.Body,
		}
		return tx.Create(msg).Error
	})
	if err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "messages", "create_thread", "started thread "+thread.Subject,
		map[string]interface{}{"thread_id": thread.ID})

	recipients := s.participantIDs(thread.ID, m.UserID)
	s.notifier.NotifyUsers(m.TeamID, recipients, "message_posted", "New message thread: "+thread.Subject, "")

	return s.loadThread(thread.ID)
}

// ListThreads returns the threads the user participates in.
func (s *MessageService) ListThreads(teamID, userID uint) ([]ThreadResponse, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	var threadIDs []uint
	err := s.db.Model(&models.ThreadParticipant{}).
		Joins("JOIN message_threads ON message_threads.id = thread_participants.thread_id").
		Where("thread_participants.user_id = ? AND message_threads.team_id = ? AND message_threads.deleted_at IS NULL", userID, teamID).
		Pluck("thread_participants.thread_id", &threadIDs).Error
	if err != nil {
		return nil, err
	}
	if len(threadIDs) == 0 {
		return nil, nil
	}

	var threads []models.MessageThread
	if err := s.db.Where("id IN ?", threadIDs).Order("updated_at DESC").Find(&threads).Error; err != nil {
		return nil, err
	}

	out := make([]ThreadResponse, 0, len(threads))
	for _, t := range threads {
		resp := ThreadResponse{MessageThread: t}

		var last models.Message
		if err := s.db.Where("thread_id = ?", t.ID).Order("created_at DESC").First(&last).Error; err == nil {
			resp.LastMessage = &last
		}

		s.db.Where("thread_id = ?", t.ID).Find(&resp.Participants)
		out = append(out, resp)
	}
	return out, nil
}

// Messages returns a thread's posts for a participant.
func (s *MessageService) Messages(threadID, teamID, userID uint) ([]models.Message, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	if _, err := s.participant(threadID, teamID, userID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := s.db.Where("thread_id = ?", threadID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// Send posts to a thread. Read-only participants (auto-added guardians) can
// read but never send.
func (s *MessageService) Send(threadID uint, m permissions.Member, v permissions.Viewer, req *SendMessageRequest) (*models.Message, error) {
	if _, err := s.billing.Require(m.TeamID, ActionMessage); err != nil {
		return nil, err
	}

	p, err := s.participant(threadID, m.TeamID, m.UserID)
	if err != nil {
		return nil, err
	}
	if p.ReadOnly {
		return nil, denyAndAudit(m.TeamID, v, "messages", "send",
			&permissions.Denial{Reason: "you are a read-only participant in this thread"})
	}

	msg := &models.Message{
		ThreadID: threadID,
		SenderID: m.UserID,
		Body:     req.Body,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		// Bump the thread so it sorts to the top of inboxes.
		return tx.Model(&models.MessageThread{}).Where("id = ?", threadID).
			Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
	if err != nil {
		return nil, err
	}

	recipients := s.participantIDs(threadID, m.UserID)
	s.notifier.NotifyUsers(m.TeamID, recipients, "message_posted", "New message", "")

	return msg, nil
}

// participant loads the caller's participant row, verifying the thread
// belongs to the team.
func (s *MessageService) participant(threadID, teamID, userID uint) (*models.ThreadParticipant, error) {
	var thread models.MessageThread
	if err := s.db.Where("id = ? AND team_id = ?", threadID, teamID).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("thread not found")
		}
		return nil, err
	}

	var p models.ThreadParticipant
	err := s.db.Where("thread_id = ? AND user_id = ?", threadID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("thread not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *MessageService) participantIDs(threadID, excludeUserID uint) []uint {
	var ids []uint
	s.db.Model(&models.ThreadParticipant{}).
		Where("thread_id = ? AND user_id <> ?", threadID, excludeUserID).
		Pluck("user_id", &ids)
	return ids
}

// guardiansOfParticipants resolves guardian user IDs for any participant who
// is a claimed player on the team.
func (s *MessageService) guardiansOfParticipants(tx *gorm.DB, teamID uint, participantIDs []uint) ([]uint, error) {
	var playerIDs []uint
	err := tx.Model(&models.Player{}).
		Where("team_id = ? AND user_id IN ?", teamID, participantIDs).
		Pluck("id", &playerIDs).Error
	if err != nil {
		return nil, err
	}
	if len(playerIDs) == 0 {
		return nil, nil
	}

	var guardianIDs []uint
	err = tx.Model(&models.GuardianPlayer{}).
		Where("player_id IN ?", playerIDs).
		Distinct().
		Pluck("guardian_user_id", &guardianIDs).Error
	if err != nil {
		return nil, err
	}
	return guardianIDs, nil
}

// guardiansRequired reports whether the school level mandates guardian
// oversight of player messaging.
func guardiansRequired(schoolLevel string) bool {
	switch schoolLevel {
	case "youth", "middle_school", "high_school":
		return true
	default:
		return false
	}
}

func (s *MessageService) loadThread(threadID uint) (*ThreadResponse, error) {
	var thread models.MessageThread
	if err := s.db.First(&thread, threadID).Error; err != nil {
		return nil, err
	}

	resp := &ThreadResponse{MessageThread: thread}
	if err := s.db.Where("thread_id = ?", threadID).Find(&resp.Participants).Error; err != nil {
		return nil, err
	}
	return resp, nil
}
