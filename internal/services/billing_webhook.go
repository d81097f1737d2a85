package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/pkg/logger"
	"github.com/braikhq/braik/pkg/response"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/gorm"
)

// BillingWebhookService turns verified Stripe events into billing facts. A
// payment is recorded at most once per payment intent; replayed webhooks are
// acknowledged without effect.
type BillingWebhookService struct {
	db            *gorm.DB
	webhookSecret string
}

func NewBillingWebhookService(db *gorm.DB, webhookSecret string) *BillingWebhookService {
	return &BillingWebhookService{db: db, webhookSecret: webhookSecret}
}

// HandleEvent verifies the signature and applies the event.
func (s *BillingWebhookService) HandleEvent(body []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(
		body,
		signature,
		s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		logger.Warn().Err(err).Msg("stripe webhook signature verification failed")
		return response.NewBadRequest("webhook signature verification failed")
	}

	logger.Info().
		Str("type", string(event.Type)).
		Str("id", event.ID).
		Msg("stripe webhook event received")

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return response.NewBadRequest("malformed payment intent payload")
		}
		return s.recordPayment(&intent)

	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return response.NewBadRequest("malformed payment intent payload")
		}
		logger.Warn().
			Str("payment_intent", intent.ID).
			Int64("amount", intent.Amount).
			Msg("payment failed")
		return nil

	default:
		logger.Info().Str("type", string(event.Type)).Msg("unhandled stripe event type")
		return nil
	}
}

// recordPayment credits the team's balance, once per intent.
func (s *BillingWebhookService) recordPayment(intent *stripe.PaymentIntent) error {
	teamID, err := teamIDFromIntent(intent)
	if err != nil {
		logger.Warn().Str("payment_intent", intent.ID).Err(err).Msg("payment has no resolvable team")
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PaymentRecord
		err := tx.Where("stripe_payment_intent_id = ?", intent.ID).First(&existing).Error
		if err == nil {
			// Webhook replay; already credited.
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := &models.PaymentRecord{
			TeamID:                teamID,
			Amount:                intent.Amount,
			Currency:              string(intent.Currency),
			StripePaymentIntentID: intent.ID,
			ReceivedAt:            time.Now(),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TeamBilling{}).
			Where("team_id = ?", teamID).
			Update("amount_paid", gorm.Expr("amount_paid + ?", intent.Amount)).Error; err != nil {
			return err
		}

		Audit(teamID, 0, "billing", "payment_received",
			"payment of "+strconv.FormatInt(intent.Amount, 10)+" cents received",
			map[string]interface{}{"payment_intent": intent.ID})
		return nil
	})
}

func teamIDFromIntent(intent *stripe.PaymentIntent) (uint, error) {
	raw, ok := intent.Metadata["team_id"]
	if !ok {
		return 0, errors.New("payment intent has no team_id metadata")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("payment intent team_id is not numeric")
	}
	return uint(id), nil
}

// BillingStatus is the view served to coaches with billing access.
type BillingStatus struct {
	State              BillingState           `json:"state"`
	SubscriptionAmount int64                  `json:"subscription_amount"`
	AmountPaid         int64                  `json:"amount_paid"`
	PaymentDue         *time.Time             `json:"payment_due"`
	Payments           []models.PaymentRecord `json:"payments"`
}

// Status returns the team's billing facts plus derived state.
func (s *BillingService) Status(teamID uint) (*BillingStatus, error) {
	state, err := s.State(teamID)
	if err != nil {
		return nil, err
	}

	var billing models.TeamBilling
	if err := s.db.Where("team_id = ?", teamID).First(&billing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BillingStatus{State: state}, nil
		}
		return nil, err
	}

	var payments []models.PaymentRecord
	s.db.Where("team_id = ?", teamID).Order("received_at DESC").Limit(20).Find(&payments)

	return &BillingStatus{
		State:              state,
		SubscriptionAmount: billing.SubscriptionAmount,
		AmountPaid:         billing.AmountPaid,
		PaymentDue:         billing.PaymentDue,
		Payments:           payments,
	}, nil
}

// SetLocked flips the platform suspension flag. Platform owner only; the
// caller enforces that.
func (s *BillingService) SetLocked(teamID uint, locked bool) error {
	result := s.db.Model(&models.TeamBilling{}).
		Where("team_id = ?", teamID).
		Update("locked", locked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("team billing record not found")
	}

	action := "unlock"
	if locked {
		action = "lock"
	}
	Audit(teamID, 0, "billing", action, "platform "+action+" applied", nil)
	return nil
}
