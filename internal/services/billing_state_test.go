package services

import (
	"testing"
	"time"

	"github.com/braikhq/braik/internal/models"
)

func TestComputeState(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name          string
		billing       *models.TeamBilling
		firstGameWeek *time.Time
		want          BillingState
	}{
		{
			"locked wins over everything",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 100000, Locked: true},
			&past,
			BillingLocked,
		},
		{
			"grace before first game week",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 0},
			&future,
			BillingGrace,
		},
		{
			"grace when no first game week is set",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 0},
			nil,
			BillingGrace,
		},
		{
			"active when paid in full",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 100000},
			&past,
			BillingActive,
		},
		{
			"active when overpaid",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 120000},
			&past,
			BillingActive,
		},
		{
			"read-only when underpaid past first game week",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 50000},
			&past,
			BillingReadOnly,
		},
		{
			"read-only when nothing paid past first game week",
			&models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 0},
			&past,
			BillingReadOnly,
		},
		{
			"no billing row past first game week counts as paid",
			nil,
			&past,
			BillingActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeState(tt.billing, tt.firstGameWeek, now); got != tt.want {
				t.Errorf("ComputeState() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeStateBoundary(t *testing.T) {
	// Exactly at the first game week the grace period is over.
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	b := &models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 0}

	if got := ComputeState(b, &now, now); got != BillingReadOnly {
		t.Errorf("at the first game week instant: ComputeState() = %v, want %v", got, BillingReadOnly)
	}

	oneSecondBefore := now.Add(-time.Second)
	if got := ComputeState(b, &now, oneSecondBefore); got != BillingGrace {
		t.Errorf("just before the first game week: ComputeState() = %v, want %v", got, BillingGrace)
	}
}

func TestStateAllows(t *testing.T) {
	actions := []BillingAction{
		ActionView, ActionCreate, ActionUpdate, ActionRemove,
		ActionMessage, ActionEditEvents, ActionEditDepthChart, ActionUseAI,
	}

	for _, a := range actions {
		if !StateAllows(BillingActive, a) {
			t.Errorf("ACTIVE should allow %s", a)
		}
		if !StateAllows(BillingGrace, a) {
			t.Errorf("GRACE should allow %s", a)
		}
		if StateAllows(BillingLocked, a) {
			t.Errorf("LOCKED should block %s", a)
		}
		wantReadOnly := a == ActionView
		if got := StateAllows(BillingReadOnly, a); got != wantReadOnly {
			t.Errorf("READ_ONLY StateAllows(%s) = %v, want %v", a, got, wantReadOnly)
		}
	}
}
