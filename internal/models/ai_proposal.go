package models

import (
	"time"

	"gorm.io/gorm"
)

// AIProposal statuses. Rejection is an explicit terminal state, not an
// omission; executed proposals record their result for idempotent re-confirm.
const (
	ProposalPending  = "pending"
	ProposalExecuted = "executed"
	ProposalRejected = "rejected"
)

// AIProposal is an assistant-suggested action awaiting a head coach decision.
type AIProposal struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	TeamID         uint           `gorm:"index;not null" json:"team_id"`
	CreatedBy      uint           `gorm:"not null" json:"created_by"`
	IdempotencyKey string         `gorm:"size:64;uniqueIndex" json:"idempotency_key"`
	Kind           string         `gorm:"size:50;not null" json:"kind"` // create_event, send_announcement
	Summary        string         `gorm:"size:500" json:"summary"`
	Payload        string         `gorm:"type:text" json:"payload"` // JSON action parameters
	Status         string         `gorm:"size:20;default:pending;index" json:"status"`
	DecidedBy      *uint          `json:"decided_by"`
	DecidedAt      *time.Time     `json:"decided_at"`
	Result         string         `gorm:"type:text" json:"result"` // JSON effect summary, set on execute
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AIProposal) TableName() string { return "ai_proposals" }
