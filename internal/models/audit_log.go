package models

import "time"

// AuditLog records allowed mutations and denied attempts per team.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeamID      uint      `gorm:"index" json:"team_id"`
	ActorUserID *uint     `gorm:"index" json:"actor_user_id"`
	Module      string    `gorm:"size:100;index" json:"module"` // events, documents, messaging, ...
	Action      string    `gorm:"size:200;index" json:"action"`
	Message     string    `gorm:"type:text" json:"message"`
	Denied      bool      `gorm:"default:false;index" json:"denied"`
	IP          string    `gorm:"size:50" json:"ip"`
	Metadata    string    `gorm:"type:text" json:"metadata"` // JSON extra data
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// RefreshToken stores hashed refresh tokens per user session.
type RefreshToken struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	TokenHash   string     `gorm:"size:128;uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt   *time.Time `json:"revoked_at"`
	ReplacedByTokenID *uint `json:"-"`
	CreatedByIP string     `gorm:"size:50" json:"-"`
	UserAgent   string     `gorm:"size:500" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
