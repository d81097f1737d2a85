package models

import "time"

// Notification is an in-app notice delivered to a single user.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TeamID    uint       `gorm:"index;not null" json:"team_id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Kind      string     `gorm:"size:50;not null" json:"kind"` // event_created, message_posted, payment_received
	Title     string     `gorm:"size:300" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
