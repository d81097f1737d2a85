package services

import (
	"errors"
	"testing"

	"github.com/braikhq/braik/internal/config"
	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestSplitActions(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantText    string
		wantActions int
	}{
		{
			name:     "plain answer without actions",
			answer:   "Practice three times a week and rotate your QBs.",
			wantText: "Practice three times a week and rotate your QBs.",
		},
		{
			name: "answer with a trailing action block",
			answer: "I can schedule that for you.\n```json\n" +
				`{"actions":[{"kind":"create_event","summary":"Friday practice","payload":{"title":"Practice"}}]}` +
				"\n```",
			wantText:    "I can schedule that for you.",
			wantActions: 1,
		},
		{
			name: "multiple actions",
			answer: "Done.\n```json\n" +
				`{"actions":[{"kind":"create_event","summary":"a","payload":{}},{"kind":"send_announcement","summary":"b","payload":{}}]}` +
				"\n```",
			wantText:    "Done.",
			wantActions: 2,
		},
		{
			name:     "unterminated block is kept as text",
			answer:   "See below.\n```json\n{\"actions\":[]}",
			wantText: "See below.\n```json\n{\"actions\":[]}",
		},
		{
			name:     "malformed JSON is kept as text",
			answer:   "Here:\n```json\nnot json\n```",
			wantText: "Here:\n```json\nnot json\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, actions := splitActions(tt.answer)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if len(actions) != tt.wantActions {
				t.Errorf("len(actions) = %d, want %d", len(actions), tt.wantActions)
			}
		})
	}
}

func TestSplitActionsPreservesFields(t *testing.T) {
	answer := "Scheduling it.\n```json\n" +
		`{"actions":[{"kind":"create_event","summary":"Team dinner","payload":{"title":"Dinner","starts_at":"2026-09-04T18:00:00Z"}}]}` +
		"\n```"

	_, actions := splitActions(answer)
	if len(actions) != 1 {
		t.Fatalf("len(actions) = %d, want 1", len(actions))
	}
	if actions[0].Kind != "create_event" {
		t.Errorf("Kind = %q, want create_event", actions[0].Kind)
	}
	if actions[0].Summary != "Team dinner" {
		t.Errorf("Summary = %q, want Team dinner", actions[0].Summary)
	}
	if len(actions[0].Payload) == 0 {
		t.Error("payload was dropped")
	}
}

// newAssistantHarness wires the assistant against an in-memory database with
// a team still in its billing grace window.
func newAssistantHarness(t *testing.T) (*AIAssistantService, *gorm.DB, models.Team) {
	t.Helper()
	db := newTestDB(t)

	team := models.Team{Name: "Eastside Eagles", SchoolLevel: "high_school"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	if err := db.Create(&models.TeamBilling{TeamID: team.ID, SubscriptionAmount: 100000}).Error; err != nil {
		t.Fatalf("failed to create billing row: %v", err)
	}

	billing := NewBillingService(db, true)
	notifier := NewNotificationService(db, NewSyncQueue())
	events := NewEventService(db, billing, notifier)
	svc := NewAIAssistantService(db, NewLLMClient(&config.LLMConfig{}), billing, events, notifier)
	return svc, db, team
}

func seedPendingEventProposal(t *testing.T, db *gorm.DB, teamID uint) models.AIProposal {
	t.Helper()
	p := models.AIProposal{
		TeamID:         teamID,
		CreatedBy:      2,
		IdempotencyKey: uuid.New().String(),
		Kind:           "create_event",
		Summary:        "Friday walkthrough",
		Payload:        `{"title":"Walkthrough","event_type":"practice","location":"Main field","starts_at":"2026-10-02T16:00:00Z"}`,
		Status:         models.ProposalPending,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	return p
}

func countEvents(t *testing.T, db *gorm.DB, teamID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Event{}).Where("team_id = ?", teamID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	return n
}

func TestConfirmHeadCoachOnly(t *testing.T) {
	svc, db, team := newAssistantHarness(t)
	p := seedPendingEventProposal(t, db, team.ID)

	m, v := teamMember(team.ID, 2, permissions.RoleAssistantCoach)
	_, err := svc.Confirm(p.ID, m, v)
	if err == nil {
		t.Fatal("assistant coach was allowed to confirm a proposal")
	}

	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Kind != response.KindPermissionDenied {
		t.Fatalf("expected a permission denial, got %v", err)
	}

	var fresh models.AIProposal
	if err := db.First(&fresh, p.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.Status != models.ProposalPending {
		t.Errorf("proposal status = %q, want pending after a denied confirm", fresh.Status)
	}
	if n := countEvents(t, db, team.ID); n != 0 {
		t.Errorf("denied confirm created %d events", n)
	}
}

func TestConfirmIdempotent(t *testing.T) {
	svc, db, team := newAssistantHarness(t)
	p := seedPendingEventProposal(t, db, team.ID)

	m, v := teamMember(team.ID, 1, permissions.RoleHeadCoach)

	first, err := svc.Confirm(p.ID, m, v)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if first.Status != models.ProposalExecuted {
		t.Errorf("status = %q, want executed", first.Status)
	}
	if first.DecidedBy == nil || *first.DecidedBy != 1 {
		t.Error("decided_by not recorded")
	}
	if first.Result == "" {
		t.Error("executed proposal carries no result")
	}
	if n := countEvents(t, db, team.ID); n != 1 {
		t.Fatalf("confirm created %d events, want 1", n)
	}

	// A second confirm returns the stored result without re-applying effects.
	second, err := svc.Confirm(p.ID, m, v)
	if err != nil {
		t.Fatalf("re-confirm error = %v", err)
	}
	if second.Status != models.ProposalExecuted {
		t.Errorf("re-confirm status = %q, want executed", second.Status)
	}
	if second.Result != first.Result {
		t.Errorf("re-confirm result changed: %q vs %q", second.Result, first.Result)
	}
	if n := countEvents(t, db, team.ID); n != 1 {
		t.Errorf("re-confirm changed the event count to %d", n)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	svc, db, team := newAssistantHarness(t)
	p := seedPendingEventProposal(t, db, team.ID)

	m, v := teamMember(team.ID, 1, permissions.RoleHeadCoach)

	rejected, err := svc.Reject(p.ID, m, v)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if rejected.Status != models.ProposalRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}
	if rejected.DecidedBy == nil || *rejected.DecidedBy != 1 {
		t.Error("decided_by not recorded on reject")
	}

	// Confirming a rejected proposal is a conflict, never an execution.
	_, err = svc.Confirm(p.ID, m, v)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Kind != response.KindConflict {
		t.Fatalf("confirm after reject: expected conflict, got %v", err)
	}
	if n := countEvents(t, db, team.ID); n != 0 {
		t.Errorf("rejected proposal produced %d events", n)
	}

	// Re-rejecting a decided proposal is also a conflict.
	if _, err := svc.Reject(p.ID, m, v); err == nil {
		t.Error("re-reject of a decided proposal should conflict")
	}
}

func TestRejectHeadCoachOnly(t *testing.T) {
	svc, db, team := newAssistantHarness(t)
	p := seedPendingEventProposal(t, db, team.ID)

	m, v := teamMember(team.ID, 2, permissions.RoleAssistantCoach)
	_, err := svc.Reject(p.ID, m, v)

	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Kind != response.KindPermissionDenied {
		t.Fatalf("expected a permission denial, got %v", err)
	}

	var fresh models.AIProposal
	if err := db.First(&fresh, p.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.Status != models.ProposalPending {
		t.Errorf("proposal status = %q, want pending after a denied reject", fresh.Status)
	}
}
