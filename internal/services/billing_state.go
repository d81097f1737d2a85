package services

import (
	"errors"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/pkg/logger"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

// BillingState is derived from stored billing facts and the clock on every
// check; it is never persisted.
type BillingState string

const (
	BillingActive   BillingState = "ACTIVE"
	BillingGrace    BillingState = "GRACE"
	BillingReadOnly BillingState = "READ_ONLY"
	BillingLocked   BillingState = "LOCKED"
)

// BillingAction names the operations the gate distinguishes.
type BillingAction string

const (
	ActionView           BillingAction = "view"
	ActionCreate         BillingAction = "create"
	ActionUpdate         BillingAction = "update"
	ActionRemove         BillingAction = "remove"
	ActionMessage        BillingAction = "message"
	ActionEditEvents     BillingAction = "edit_events"
	ActionEditDepthChart BillingAction = "edit_depth_chart"
	ActionUseAI          BillingAction = "use_ai"
)

// ComputeState derives the billing state from the team's billing facts.
//
//	LOCKED    platform suspension; blocks everything, views included
//	GRACE     before the first game week; everything allowed
//	ACTIVE    paid in full past the first game week
//	READ_ONLY underpaid past the first game week; views only
func ComputeState(b *models.TeamBilling, firstGameWeek *time.Time, now time.Time) BillingState {
	if b != nil && b.Locked {
		return BillingLocked
	}
	if firstGameWeek == nil || now.Before(*firstGameWeek) {
		return BillingGrace
	}
	if b == nil || b.AmountPaid >= b.SubscriptionAmount {
		return BillingActive
	}
	return BillingReadOnly
}

// StateAllows reports whether the state permits the action.
func StateAllows(state BillingState, action BillingAction) bool {
	switch state {
	case BillingActive, BillingGrace:
		return true
	case BillingReadOnly:
		return action == ActionView
	default: // LOCKED
		return false
	}
}

// BillingService is the billing-state gate. Every mutating service method
// calls Require before its hierarchical permission check.
type BillingService struct {
	db                *gorm.DB
	platformAIEnabled bool
}

func NewBillingService(db *gorm.DB, platformAIEnabled bool) *BillingService {
	return &BillingService{db: db, platformAIEnabled: platformAIEnabled}
}

// State loads the billing facts and derives the current state.
func (s *BillingService) State(teamID uint) (BillingState, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewNotFound("team not found")
		}
		return "", err
	}

	var billing models.TeamBilling
	var b *models.TeamBilling
	err := s.db.Where("team_id = ?", teamID).First(&billing).Error
	if err == nil {
		b = &billing
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return ComputeState(b, team.FirstGameWeek, time.Now()), nil
}

// Require vetoes the action when the billing state does not permit it. The
// returned error is a billing_restriction, distinguishable from a permission
// denial, and carries the current status.
func (s *BillingService) Require(teamID uint, action BillingAction) (BillingState, error) {
	state, err := s.State(teamID)
	if err != nil {
		return "", err
	}

	if action == ActionUseAI {
		if !s.platformAIEnabled {
			logger.Denial(0, teamID, "", response.KindBillingRestriction, "AI assistant is disabled platform-wide")
			return state, response.NewBillingRestricted(string(state), "the AI assistant is currently disabled")
		}
	}

	if !StateAllows(state, action) {
		msg := billingMessage(state)
		logger.Denial(0, teamID, "", response.KindBillingRestriction, msg)
		return state, response.NewBillingRestricted(string(state), msg)
	}

	return state, nil
}

func billingMessage(state BillingState) string {
	switch state {
	case BillingReadOnly:
		return "your team's subscription is not fully paid; the account is read-only until the balance is settled"
	case BillingLocked:
		return "this team's account has been suspended; contact support"
	default:
		return "this action is not permitted in the current billing state"
	}
}
