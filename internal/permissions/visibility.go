package permissions

// Resource is the scoping shape shared by events, documents, inventory
// items, depth chart entries, and plays. Services translate their GORM rows
// into this before asking for a decision.
type Resource struct {
	TeamID               uint
	CreatedBy            uint
	CreatorRole          Role
	Visibility           Visibility
	ScopedUnit           Unit // empty means not unit-scoped
	ScopedPositionGroups []string
	ScopedPlayerIDs      []uint
	CoordinatorType      CoordinatorType
	Locked               bool
}

// Unscoped reports whether the resource carries no fine scoping at all,
// which means "entire program".
func (r Resource) Unscoped() bool {
	return r.ScopedUnit == "" && len(r.ScopedPositionGroups) == 0 && len(r.ScopedPlayerIDs) == 0
}

// LevelAllows is the coarse visibility-level filter. It is ANDed with the
// fine scoping check: a resource must pass both.
func LevelAllows(role Role, level Visibility) bool {
	switch role {
	case RolePlayer:
		return level != VisibilityCoachesOnly
	case RoleParent:
		return level == VisibilityParentsAndTeam
	default:
		// Coaches and admins see every level.
		return true
	}
}

// CanView decides read access. Pure function: identical inputs always yield
// identical results.
func CanView(v Viewer, r Resource) bool {
	if !LevelAllows(v.Role, r.Visibility) {
		return false
	}

	// Head coaches, school admins, and platform owners see everything.
	if v.Scope.Kind == ScopeProgramWide {
		return true
	}

	if r.Unscoped() {
		switch v.Scope.Kind {
		case ScopeUnit, ScopePositionGroups, ScopeSelf:
			return true
		case ScopeOwnChild:
			// Parents only see program-wide content that came from the head
			// coach; other coaches' unscoped items stay staff-and-team only.
			return r.CreatorRole == RoleHeadCoach
		case ScopeNone:
			// Unassigned assistants still see program-wide content.
			return v.Role == RoleAssistantCoach
		}
		return false
	}

	switch v.Scope.Kind {
	case ScopeUnit:
		return r.ScopedUnit == v.Scope.Unit
	case ScopePositionGroups:
		return intersects(r.ScopedPositionGroups, v.Scope.PositionGroups)
	case ScopeSelf:
		if r.ScopedUnit != "" && r.ScopedUnit == v.Scope.PlayerUnit {
			return true
		}
		if v.Scope.PlayerGroup != "" && containsString(r.ScopedPositionGroups, v.Scope.PlayerGroup) {
			return true
		}
		return containsUint(r.ScopedPlayerIDs, v.Scope.PlayerID)
	}

	// ScopeOwnChild and ScopeNone never reach scoped content.
	return false
}

// FilterVisible returns the indexes of resources the viewer may see,
// preserving order. Used by list endpoints as a post-filter.
func FilterVisible(v Viewer, resources []Resource) []int {
	var visible []int
	for i, r := range resources {
		if CanView(v, r) {
			visible = append(visible, i)
		}
	}
	return visible
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func containsUint(list []uint, n uint) bool {
	for _, x := range list {
		if x == n {
			return true
		}
	}
	return false
}
