package services

import (
	"testing"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
)

func programWideMember() (permissions.Member, permissions.Viewer) {
	m := permissions.Member{UserID: 1, TeamID: 1, Role: permissions.RoleHeadCoach}
	return m, permissions.NewViewer(m, nil, nil)
}

func coordinatorMember(ct permissions.CoordinatorType) (permissions.Member, permissions.Viewer) {
	m := permissions.Member{
		UserID: 2, TeamID: 1, Role: permissions.RoleAssistantCoach,
		Assignment: permissions.Assignment{Kind: permissions.AssignmentCoordinator, CoordinatorType: ct},
	}
	return m, permissions.NewViewer(m, nil, nil)
}

func positionCoachMember(groups ...string) (permissions.Member, permissions.Viewer) {
	m := permissions.Member{
		UserID: 3, TeamID: 1, Role: permissions.RoleAssistantCoach,
		Assignment: permissions.Assignment{Kind: permissions.AssignmentPositionGroups, PositionGroups: groups},
	}
	return m, permissions.NewViewer(m, nil, nil)
}

func TestStampScopingHeadCoach(t *testing.T) {
	m, v := programWideMember()

	tests := []struct {
		name    string
		req     ScopingRequest
		wantErr bool
		check   func(t *testing.T, sc models.Scoping)
	}{
		{
			name: "defaults to team visibility",
			req:  ScopingRequest{},
			check: func(t *testing.T, sc models.Scoping) {
				if sc.Visibility != string(permissions.VisibilityTeam) {
					t.Errorf("Visibility = %q, want TEAM", sc.Visibility)
				}
			},
		},
		{
			name: "keeps requested unit",
			req:  ScopingRequest{ScopedUnit: "DEFENSE"},
			check: func(t *testing.T, sc models.Scoping) {
				if sc.ScopedUnit != "DEFENSE" {
					t.Errorf("ScopedUnit = %q, want DEFENSE", sc.ScopedUnit)
				}
			},
		},
		{
			name: "keeps requested player IDs",
			req:  ScopingRequest{ScopedPlayerIDs: []uint{4, 9}},
			check: func(t *testing.T, sc models.Scoping) {
				if sc.ScopedPlayerIDs != "4,9" {
					t.Errorf("ScopedPlayerIDs = %q, want 4,9", sc.ScopedPlayerIDs)
				}
			},
		},
		{name: "rejects unknown visibility", req: ScopingRequest{Visibility: "EVERYONE"}, wantErr: true},
		{name: "rejects unknown unit", req: ScopingRequest{ScopedUnit: "BENCH"}, wantErr: true},
		{
			name:    "rejects combined scoping dimensions",
			req:     ScopingRequest{ScopedUnit: "OFFENSE", ScopedPositionGroups: []string{"QB"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := stampScoping(m, v, tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("stampScoping() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("stampScoping() error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, sc)
			}
		})
	}
}

func TestStampScopingCoordinatorPinnedToUnit(t *testing.T) {
	m, v := coordinatorMember(permissions.DefensiveCoordinator)

	// Whatever the request says, the coordinator's content lands in their unit.
	sc, err := stampScoping(m, v, ScopingRequest{ScopedUnit: "OFFENSE"})
	if err != nil {
		t.Fatalf("stampScoping() error: %v", err)
	}
	if sc.ScopedUnit != string(permissions.UnitDefense) {
		t.Errorf("ScopedUnit = %q, want %q", sc.ScopedUnit, permissions.UnitDefense)
	}
	if sc.CoordinatorType != string(permissions.DefensiveCoordinator) {
		t.Errorf("CoordinatorType = %q, want %q", sc.CoordinatorType, permissions.DefensiveCoordinator)
	}
}

func TestStampScopingPositionCoach(t *testing.T) {
	m, v := positionCoachMember("WR", "TE")

	t.Run("empty request defaults to own groups", func(t *testing.T) {
		sc, err := stampScoping(m, v, ScopingRequest{})
		if err != nil {
			t.Fatalf("stampScoping() error: %v", err)
		}
		if sc.ScopedPositionGroups != "WR,TE" {
			t.Errorf("ScopedPositionGroups = %q, want WR,TE", sc.ScopedPositionGroups)
		}
	})

	t.Run("subset of own groups allowed", func(t *testing.T) {
		sc, err := stampScoping(m, v, ScopingRequest{ScopedPositionGroups: []string{"TE"}})
		if err != nil {
			t.Fatalf("stampScoping() error: %v", err)
		}
		if sc.ScopedPositionGroups != "TE" {
			t.Errorf("ScopedPositionGroups = %q, want TE", sc.ScopedPositionGroups)
		}
	})

	t.Run("foreign group rejected", func(t *testing.T) {
		if _, err := stampScoping(m, v, ScopingRequest{ScopedPositionGroups: []string{"QB"}}); err == nil {
			t.Error("stampScoping() allowed a group the coach does not hold")
		}
	})
}

func TestStampScopingNonCreatorRolesDenied(t *testing.T) {
	player := permissions.Member{UserID: 4, TeamID: 1, Role: permissions.RolePlayer}
	v := permissions.NewViewer(player, &permissions.SelfPlayer{PlayerID: 100, PositionGroup: "QB"}, nil)

	if _, err := stampScoping(player, v, ScopingRequest{}); err == nil {
		t.Error("stampScoping() should deny players")
	}

	parent := permissions.Member{UserID: 5, TeamID: 1, Role: permissions.RoleParent}
	pv := permissions.NewViewer(parent, nil, []uint{100})
	if _, err := stampScoping(parent, pv, ScopingRequest{}); err == nil {
		t.Error("stampScoping() should deny parents")
	}
}

func TestRuleResourceRoundTrip(t *testing.T) {
	sc := models.Scoping{
		Visibility:           "COACHES_ONLY",
		ScopedUnit:           "OFFENSE",
		ScopedPositionGroups: "QB,RB",
		ScopedPlayerIDs:      "7,12",
		CoordinatorType:      "OFFENSIVE_COORDINATOR",
	}

	r := ruleResource(1, 10, permissions.RoleAssistantCoach, sc, true)

	if r.TeamID != 1 || r.CreatedBy != 10 {
		t.Errorf("identity fields = (%d, %d), want (1, 10)", r.TeamID, r.CreatedBy)
	}
	if r.Visibility != permissions.VisibilityCoachesOnly {
		t.Errorf("Visibility = %q", r.Visibility)
	}
	if r.ScopedUnit != permissions.UnitOffense {
		t.Errorf("ScopedUnit = %q", r.ScopedUnit)
	}
	if len(r.ScopedPositionGroups) != 2 || r.ScopedPositionGroups[0] != "QB" {
		t.Errorf("ScopedPositionGroups = %v", r.ScopedPositionGroups)
	}
	if len(r.ScopedPlayerIDs) != 2 || r.ScopedPlayerIDs[1] != 12 {
		t.Errorf("ScopedPlayerIDs = %v", r.ScopedPlayerIDs)
	}
	if !r.Locked {
		t.Error("Locked not carried over")
	}
}
