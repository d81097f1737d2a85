package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamBilling holds the stored billing facts for one team. The billing state
// itself (ACTIVE / GRACE / READ_ONLY / LOCKED) is never stored; it is derived
// from these fields and the clock on every check.
type TeamBilling struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	TeamID             uint           `gorm:"uniqueIndex;not null" json:"team_id"`
	SubscriptionAmount int64          `gorm:"not null" json:"subscription_amount"` // cents
	AmountPaid         int64          `gorm:"default:0" json:"amount_paid"`        // cents
	PaymentDue         *time.Time     `json:"payment_due"`
	Locked             bool           `gorm:"default:false" json:"locked"` // platform suspension
	StripeCustomerID   string         `gorm:"size:100;index" json:"-"`
	StripePriceID      string         `gorm:"size:100" json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// PaymentRecord logs a received payment (from the Stripe webhook).
type PaymentRecord struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	TeamID                uint      `gorm:"index;not null" json:"team_id"`
	Amount                int64     `gorm:"not null" json:"amount"` // cents
	Currency              string    `gorm:"size:10;default:usd" json:"currency"`
	StripePaymentIntentID string    `gorm:"size:100;uniqueIndex" json:"stripe_payment_intent_id"`
	ReceivedAt            time.Time `json:"received_at"`
	CreatedAt             time.Time `json:"created_at"`
}

func (TeamBilling) TableName() string   { return "team_billings" }
func (PaymentRecord) TableName() string { return "payment_records" }
