package permissions

import (
	"errors"
	"testing"
)

func TestAuthorizeEdit(t *testing.T) {
	base := Resource{TeamID: 1, CreatedBy: 10, CreatorRole: RoleAssistantCoach, Visibility: VisibilityTeam}

	offense := base
	offense.ScopedUnit = UnitOffense

	wrScoped := base
	wrScoped.ScopedPositionGroups = []string{"WR"}

	tests := []struct {
		name      string
		viewer    Viewer
		resource  Resource
		wantAllow bool
	}{
		{"player denied", playerViewer(100, "QB"), base, false},
		{"parent denied", parentViewer(100), base, false},
		{"head coach edits anything", headCoachViewer(), offense, true},
		{
			"platform owner edits anything",
			Viewer{UserID: 9, Role: RolePlatformOwner, Scope: Scope{Kind: ScopeProgramWide}},
			offense,
			true,
		},
		{
			"creator edits own resource",
			Viewer{UserID: 10, Role: RoleAssistantCoach, Scope: Scope{Kind: ScopeNone}},
			base,
			true,
		},
		{"coordinator edits resource in own unit", coordinatorViewer(UnitOffense), offense, true},
		{"coordinator denied outside own unit", coordinatorViewer(UnitDefense), offense, false},
		{"coordinator denied on unscoped resource by another coach", coordinatorViewer(UnitOffense), base, false},
		{"position coach edits overlapping groups", positionCoachViewer("WR", "TE"), wrScoped, true},
		{"position coach denied on disjoint groups", positionCoachViewer("DL"), wrScoped, false},
		{
			"school admin denied without ownership",
			Viewer{UserID: 11, Role: RoleSchoolAdmin, Scope: Scope{Kind: ScopeProgramWide}},
			offense,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeEdit(tt.viewer, tt.resource)
			if tt.wantAllow && err != nil {
				t.Errorf("AuthorizeEdit() = %v, want allow", err)
			}
			if !tt.wantAllow {
				if err == nil {
					t.Fatal("AuthorizeEdit() allowed, want denial")
				}
				var denial *Denial
				if !errors.As(err, &denial) {
					t.Errorf("AuthorizeEdit() returned %T, want *Denial", err)
				}
				if denial != nil && denial.Reason == "" {
					t.Error("denial carries no reason")
				}
			}
		})
	}
}

func TestAuthorizeEditLocked(t *testing.T) {
	locked := Resource{
		TeamID: 1, CreatedBy: 10, CreatorRole: RoleAssistantCoach,
		Visibility: VisibilityTeam, ScopedUnit: UnitOffense, Locked: true,
	}

	tests := []struct {
		name      string
		viewer    Viewer
		wantAllow bool
	}{
		{"head coach edits locked resource", headCoachViewer(), true},
		{
			"creator edits own locked resource",
			Viewer{UserID: 10, Role: RoleAssistantCoach, Scope: Scope{Kind: ScopeUnit, Unit: UnitOffense}},
			true,
		},
		{"coordinator in matching unit blocked by lock", coordinatorViewer(UnitOffense), false},
		{"position coach blocked by lock", positionCoachViewer("WR"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeEdit(tt.viewer, locked)
			if tt.wantAllow && err != nil {
				t.Errorf("AuthorizeEdit() = %v, want allow", err)
			}
			if !tt.wantAllow && err == nil {
				t.Error("AuthorizeEdit() allowed, want denial")
			}
		})
	}
}

func TestAuthorizeRemove(t *testing.T) {
	base := Resource{TeamID: 1, CreatedBy: 10, CreatorRole: RoleAssistantCoach, Visibility: VisibilityTeam, ScopedUnit: UnitOffense}

	locked := base
	locked.Locked = true

	creator := Viewer{UserID: 10, Role: RoleAssistantCoach, Scope: Scope{Kind: ScopeUnit, Unit: UnitOffense}}

	tests := []struct {
		name      string
		viewer    Viewer
		resource  Resource
		wantAllow bool
	}{
		{"head coach removes anything", headCoachViewer(), locked, true},
		{"creator removes own unlocked resource", creator, base, true},
		{"creator blocked from removing own locked resource", creator, locked, false},
		{"coordinator in matching unit cannot remove", coordinatorViewer(UnitOffense), base, false},
		{"player denied", playerViewer(100, "QB"), base, false},
		{"parent denied", parentViewer(100), base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeRemove(tt.viewer, tt.resource)
			if tt.wantAllow && err != nil {
				t.Errorf("AuthorizeRemove() = %v, want allow", err)
			}
			if !tt.wantAllow && err == nil {
				t.Error("AuthorizeRemove() allowed, want denial")
			}
		})
	}
}

func TestRemoveStricterThanEdit(t *testing.T) {
	// Every viewer allowed to remove must also be allowed to edit.
	resources := []Resource{
		{TeamID: 1, CreatedBy: 10, CreatorRole: RoleAssistantCoach, Visibility: VisibilityTeam},
		{TeamID: 1, CreatedBy: 10, CreatorRole: RoleAssistantCoach, Visibility: VisibilityTeam, ScopedUnit: UnitOffense},
		{TeamID: 1, CreatedBy: 10, CreatorRole: RoleAssistantCoach, Visibility: VisibilityTeam, ScopedUnit: UnitOffense, Locked: true},
	}
	viewers := []Viewer{
		headCoachViewer(),
		coordinatorViewer(UnitOffense),
		coordinatorViewer(UnitDefense),
		positionCoachViewer("WR"),
		playerViewer(100, "QB"),
		parentViewer(100),
		{UserID: 10, Role: RoleAssistantCoach, Scope: Scope{Kind: ScopeUnit, Unit: UnitOffense}},
	}

	for _, r := range resources {
		for _, v := range viewers {
			if CanRemove(v, r) && !CanEdit(v, r) {
				t.Errorf("viewer %d/%s may remove but not edit resource (locked=%v)", v.UserID, v.Role, r.Locked)
			}
		}
	}
}
