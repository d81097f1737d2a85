package permissions

// AssignmentKind tags the decoded form of a membership's stored permission
// blob. Decoding happens once at membership load; nothing downstream probes
// raw fields.
type AssignmentKind int

const (
	AssignmentNone AssignmentKind = iota
	AssignmentCoordinator
	AssignmentPositionGroups
)

// Assignment is the decoded coaching assignment carried by a membership.
type Assignment struct {
	Kind            AssignmentKind
	CoordinatorType CoordinatorType
	PositionGroups  []string
}

// DecodeAssignment turns the stored coordinator type and position group list
// into a tagged assignment. A coordinator type wins over position groups.
func DecodeAssignment(coordinatorType string, positionGroups []string) Assignment {
	if coordinatorType != "" {
		ct := CoordinatorType(coordinatorType)
		if _, ok := coordinatorUnits[ct]; ok {
			return Assignment{Kind: AssignmentCoordinator, CoordinatorType: ct}
		}
	}
	if len(positionGroups) > 0 {
		return Assignment{Kind: AssignmentPositionGroups, PositionGroups: positionGroups}
	}
	return Assignment{Kind: AssignmentNone}
}

// Member is a loaded membership in its decoded form.
type Member struct {
	UserID     uint
	TeamID     uint
	Role       Role
	Assignment Assignment
}

// ScopeKind identifies what slice of the program a member operates over.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeProgramWide
	ScopeUnit
	ScopePositionGroups
	ScopeSelf
	ScopeOwnChild
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeProgramWide:
		return "program_wide"
	case ScopeUnit:
		return "unit"
	case ScopePositionGroups:
		return "position_groups"
	case ScopeSelf:
		return "self"
	case ScopeOwnChild:
		return "own_child"
	default:
		return "none"
	}
}

// Scope is the resolved slice of the program a member may see.
type Scope struct {
	Kind           ScopeKind
	Unit           Unit     // ScopeUnit
	PositionGroups []string // ScopePositionGroups
	PlayerID       uint     // ScopeSelf
	PlayerGroup    string   // ScopeSelf: the player's own position group
	PlayerUnit     Unit     // ScopeSelf: unit derived from PlayerGroup
	PlayerIDs      []uint   // ScopeOwnChild: linked children on this team
}

// SelfPlayer carries the roster row backing a PLAYER member.
type SelfPlayer struct {
	PlayerID      uint
	PositionGroup string
}

// ResolveScope computes the scope a member operates under. The self player
// row and guardian-linked child IDs are looked up by the caller; the decision
// here is pure.
func ResolveScope(m Member, self *SelfPlayer, childPlayerIDs []uint) Scope {
	switch m.Role {
	case RoleHeadCoach, RoleSchoolAdmin, RolePlatformOwner:
		return Scope{Kind: ScopeProgramWide}

	case RoleAssistantCoach:
		switch m.Assignment.Kind {
		case AssignmentCoordinator:
			if u, ok := coordinatorUnits[m.Assignment.CoordinatorType]; ok {
				return Scope{Kind: ScopeUnit, Unit: u}
			}
		case AssignmentPositionGroups:
			return Scope{Kind: ScopePositionGroups, PositionGroups: m.Assignment.PositionGroups}
		}
		return Scope{Kind: ScopeNone}

	case RolePlayer:
		if self == nil {
			return Scope{Kind: ScopeNone}
		}
		s := Scope{Kind: ScopeSelf, PlayerID: self.PlayerID, PlayerGroup: self.PositionGroup}
		if u, ok := positionUnits[self.PositionGroup]; ok {
			s.PlayerUnit = u
		}
		return s

	case RoleParent:
		if len(childPlayerIDs) == 0 {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeOwnChild, PlayerIDs: childPlayerIDs}
	}

	return Scope{Kind: ScopeNone}
}

// Viewer bundles a member's role with the scope resolved for them. Every
// visibility and authorization decision takes a Viewer.
type Viewer struct {
	UserID uint
	Role   Role
	Scope  Scope
}

// NewViewer resolves the member's scope and returns the viewer in one step.
func NewViewer(m Member, self *SelfPlayer, childPlayerIDs []uint) Viewer {
	return Viewer{UserID: m.UserID, Role: m.Role, Scope: ResolveScope(m, self, childPlayerIDs)}
}
