package permissions

import "fmt"

// Denial is a typed authorization failure carrying a human-readable reason.
// Handlers map it to 403; the reason is logged, never swallowed.
type Denial struct {
	Reason string
}

func (d *Denial) Error() string { return d.Reason }

func deny(format string, args ...interface{}) *Denial {
	return &Denial{Reason: fmt.Sprintf(format, args...)}
}

// AuthorizeEdit decides write access to an existing resource. Returns nil on
// allow, or a *Denial explaining why not.
//
// Order matters: the head-coach override comes first, then the legacy lock
// flag (layered on top of the hierarchy for non-creator assistants), then
// ownership, then coordinator and position-group co-management.
func AuthorizeEdit(v Viewer, r Resource) error {
	switch v.Role {
	case RolePlayer:
		return deny("players cannot edit team resources")
	case RoleParent:
		return deny("parents cannot edit team resources")
	}

	if v.Role == RoleHeadCoach || v.Role == RolePlatformOwner {
		return nil
	}

	// Locked events block every assistant coach except their creator, even
	// when unit or position-group rules would otherwise allow the edit.
	if r.Locked && v.Role == RoleAssistantCoach && v.UserID != r.CreatedBy {
		return deny("resource is locked; only its creator or the head coach may edit it")
	}

	if v.UserID == r.CreatedBy {
		return nil
	}

	switch v.Scope.Kind {
	case ScopeUnit:
		if r.ScopedUnit == v.Scope.Unit {
			return nil
		}
		return deny("resource is outside your %s unit", v.Scope.Unit)
	case ScopePositionGroups:
		if intersects(r.ScopedPositionGroups, v.Scope.PositionGroups) {
			return nil
		}
		return deny("resource is not scoped to your position groups")
	}

	return deny("only the creator, a coordinator for its unit, or the head coach may edit this resource")
}

// AuthorizeRemove decides delete access. Stricter than edit: only the head
// coach, or the creator when the resource is not locked.
func AuthorizeRemove(v Viewer, r Resource) error {
	switch v.Role {
	case RolePlayer:
		return deny("players cannot remove team resources")
	case RoleParent:
		return deny("parents cannot remove team resources")
	}

	if v.Role == RoleHeadCoach || v.Role == RolePlatformOwner {
		return nil
	}

	if v.UserID == r.CreatedBy {
		if r.Locked {
			return deny("resource is locked; only the head coach may remove it")
		}
		return nil
	}

	return deny("only the creator or the head coach may remove this resource")
}

// CanEdit is the boolean form of AuthorizeEdit.
func CanEdit(v Viewer, r Resource) bool {
	return AuthorizeEdit(v, r) == nil
}

// CanRemove is the boolean form of AuthorizeRemove.
func CanRemove(v Viewer, r Resource) bool {
	return AuthorizeRemove(v, r) == nil
}
