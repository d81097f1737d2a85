package models

import (
	"time"

	"gorm.io/gorm"
)

// MessageThread is a conversation between team members.
type MessageThread struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TeamID    uint           `gorm:"index;not null" json:"team_id"`
	CreatedBy uint           `gorm:"not null" json:"created_by"`
	Subject   string         `gorm:"size:300" json:"subject"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ThreadParticipant joins a user into a thread. ReadOnly participants can
// view but never send; auto-added parents are always read-only.
type ThreadParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"uniqueIndex:idx_thread_user;not null" json:"thread_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_thread_user;not null" json:"user_id"`
	ReadOnly  bool      `gorm:"default:false" json:"read_only"`
	AutoAdded bool      `gorm:"default:false" json:"auto_added"` // parent added via child participation
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single post within a thread.
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ThreadID  uint           `gorm:"index;not null" json:"thread_id"`
	SenderID  uint           `gorm:"not null" json:"sender_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MessageThread) TableName() string     { return "message_threads" }
func (ThreadParticipant) TableName() string { return "thread_participants" }
func (Message) TableName() string           { return "messages" }
