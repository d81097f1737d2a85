package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

func newEventHarness(t *testing.T, team *models.Team, billingRow *models.TeamBilling) (*EventService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	billingRow.TeamID = team.ID
	if err := db.Create(billingRow).Error; err != nil {
		t.Fatalf("failed to create billing row: %v", err)
	}

	billing := NewBillingService(db, true)
	notifier := NewNotificationService(db, NewSyncQueue())
	return NewEventService(db, billing, notifier), db
}

func TestReadOnlyTeamBlocksEventWritesButAllowsViews(t *testing.T) {
	past := time.Now().AddDate(0, -1, 0)
	team := &models.Team{Name: "Westbrook Wolves", SchoolLevel: "high_school", FirstGameWeek: &past}
	events, _ := newEventHarness(t, team, &models.TeamBilling{SubscriptionAmount: 100000, AmountPaid: 50000})

	m, v := teamMember(team.ID, 1, permissions.RoleHeadCoach)

	_, err := events.Create(m, v, &CreateEventRequest{
		Title:    "Tuesday practice",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected a typed error, got %v", err)
	}
	if appErr.Kind != response.KindBillingRestriction {
		t.Errorf("kind = %q, want %q", appErr.Kind, response.KindBillingRestriction)
	}
	if appErr.HTTPStatus != http.StatusPaymentRequired {
		t.Errorf("status = %d, want %d", appErr.HTTPStatus, http.StatusPaymentRequired)
	}
	if appErr.Detail != string(BillingReadOnly) {
		t.Errorf("detail = %q, want the READ_ONLY state", appErr.Detail)
	}

	// Views stay open in read-only mode.
	if _, err := events.List(team.ID, v); err != nil {
		t.Errorf("List() in read-only mode: %v", err)
	}
}

func TestUpdateLockFlagCreatorAndHeadCoachOnly(t *testing.T) {
	team := &models.Team{Name: "Northgate Knights", SchoolLevel: "high_school"}
	events, db := newEventHarness(t, team, &models.TeamBilling{SubscriptionAmount: 100000})

	// Two offensive coordinators co-manage the unit; user 2 created the event.
	for _, userID := range []uint{2, 3} {
		if err := db.Create(&models.Membership{
			TeamID:          team.ID,
			UserID:          userID,
			Role:            string(permissions.RoleAssistantCoach),
			CoordinatorType: string(permissions.OffensiveCoordinator),
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	event := models.Event{
		TeamID:    team.ID,
		CreatedBy: 2,
		Scoping:   models.Scoping{Visibility: string(permissions.VisibilityTeam), ScopedUnit: string(permissions.UnitOffense)},
		Title:     "Install session",
		EventType: "practice",
		StartsAt:  time.Now().Add(48 * time.Hour),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatal(err)
	}

	coordinator := permissions.Member{
		UserID: 3, TeamID: team.ID, Role: permissions.RoleAssistantCoach,
		Assignment: permissions.Assignment{Kind: permissions.AssignmentCoordinator, CoordinatorType: permissions.OffensiveCoordinator},
	}
	coordViewer := permissions.NewViewer(coordinator, nil, nil)

	// A co-managing coordinator may edit the event itself.
	title := "Install session (moved)"
	if _, err := events.Update(event.ID, coordinator, coordViewer, &UpdateEventRequest{Title: &title}); err != nil {
		t.Fatalf("coordinator edit inside own unit failed: %v", err)
	}

	// But flipping the lock flag is refused with a reason, not dropped.
	locked := true
	_, err := events.Update(event.ID, coordinator, coordViewer, &UpdateEventRequest{Locked: &locked})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Kind != response.KindPermissionDenied {
		t.Fatalf("non-creator lock change: expected permission denial, got %v", err)
	}

	var fresh models.Event
	if err := db.First(&fresh, event.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.Locked {
		t.Error("denied lock change still flipped the flag")
	}

	// The creator may lock their own event.
	creator := permissions.Member{
		UserID: 2, TeamID: team.ID, Role: permissions.RoleAssistantCoach,
		Assignment: permissions.Assignment{Kind: permissions.AssignmentCoordinator, CoordinatorType: permissions.OffensiveCoordinator},
	}
	updated, err := events.Update(event.ID, creator, permissions.NewViewer(creator, nil, nil), &UpdateEventRequest{Locked: &locked})
	if err != nil {
		t.Fatalf("creator lock change failed: %v", err)
	}
	if !updated.Locked {
		t.Error("creator lock change did not stick")
	}

	// And the head coach may unlock it again.
	unlocked := false
	hc, hcViewer := teamMember(team.ID, 1, permissions.RoleHeadCoach)
	updated, err = events.Update(event.ID, hc, hcViewer, &UpdateEventRequest{Locked: &unlocked})
	if err != nil {
		t.Fatalf("head coach unlock failed: %v", err)
	}
	if updated.Locked {
		t.Error("head coach unlock did not stick")
	}
}