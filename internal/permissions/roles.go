package permissions

// Role is a user's role within a single team.
type Role string

const (
	RoleHeadCoach      Role = "HEAD_COACH"
	RoleAssistantCoach Role = "ASSISTANT_COACH"
	RolePlayer         Role = "PLAYER"
	RoleParent         Role = "PARENT"
	RoleSchoolAdmin    Role = "SCHOOL_ADMIN"
	RolePlatformOwner  Role = "PLATFORM_OWNER"
)

// Unit is one of the three sides of the ball a resource can be scoped to.
type Unit string

const (
	UnitOffense      Unit = "OFFENSE"
	UnitDefense      Unit = "DEFENSE"
	UnitSpecialTeams Unit = "SPECIAL_TEAMS"
)

// CoordinatorType is an assistant coach's coordinator assignment.
type CoordinatorType string

const (
	OffensiveCoordinator    CoordinatorType = "OFFENSIVE_COORDINATOR"
	DefensiveCoordinator    CoordinatorType = "DEFENSIVE_COORDINATOR"
	SpecialTeamsCoordinator CoordinatorType = "SPECIAL_TEAMS_COORDINATOR"
)

// Visibility is the coarse audience level carried by every scoped resource.
type Visibility string

const (
	VisibilityCoachesOnly    Visibility = "COACHES_ONLY"
	VisibilityTeam           Visibility = "TEAM"
	VisibilityParentsAndTeam Visibility = "PARENTS_AND_TEAM"
)

// coordinatorUnits maps a coordinator assignment to the unit it manages.
var coordinatorUnits = map[CoordinatorType]Unit{
	OffensiveCoordinator:    UnitOffense,
	DefensiveCoordinator:    UnitDefense,
	SpecialTeamsCoordinator: UnitSpecialTeams,
}

// positionUnits maps a position group code to its unit.
var positionUnits = map[string]Unit{
	"QB": UnitOffense,
	"RB": UnitOffense,
	"FB": UnitOffense,
	"WR": UnitOffense,
	"TE": UnitOffense,
	"OL": UnitOffense,
	"DL": UnitDefense,
	"LB": UnitDefense,
	"CB": UnitDefense,
	"S":  UnitDefense,
	"DB": UnitDefense,
	"K":  UnitSpecialTeams,
	"P":  UnitSpecialTeams,
	"LS": UnitSpecialTeams,
	"KR": UnitSpecialTeams,
	"PR": UnitSpecialTeams,
}

// UnitForCoordinator returns the unit a coordinator type manages.
func UnitForCoordinator(ct CoordinatorType) (Unit, bool) {
	u, ok := coordinatorUnits[ct]
	return u, ok
}

// UnitForPosition returns the unit a position group belongs to.
func UnitForPosition(group string) (Unit, bool) {
	u, ok := positionUnits[group]
	return u, ok
}

// ValidRole reports whether r is a known team role.
func ValidRole(r Role) bool {
	switch r {
	case RoleHeadCoach, RoleAssistantCoach, RolePlayer, RoleParent, RoleSchoolAdmin, RolePlatformOwner:
		return true
	}
	return false
}

// ValidUnit reports whether u is a known unit. Empty means unscoped.
func ValidUnit(u Unit) bool {
	switch u {
	case UnitOffense, UnitDefense, UnitSpecialTeams:
		return true
	}
	return false
}

// ValidVisibility reports whether v is a known visibility level.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityCoachesOnly, VisibilityTeam, VisibilityParentsAndTeam:
		return true
	}
	return false
}

// IsCoach reports whether the role belongs to the coaching staff.
func IsCoach(r Role) bool {
	return r == RoleHeadCoach || r == RoleAssistantCoach
}

// --- static capability predicates ---

// CanManageTeam reports whether the role may change team settings and
// member assignments (coordinator roles, position groups).
func CanManageTeam(r Role) bool {
	return r == RoleHeadCoach || r == RolePlatformOwner
}

// CanEditRoster reports whether the role may add, edit, or remove players.
func CanEditRoster(r Role) bool {
	return IsCoach(r) || r == RolePlatformOwner
}

// CanManageBilling reports whether the role may view and change subscription
// and payment settings.
func CanManageBilling(r Role) bool {
	return r == RoleHeadCoach || r == RoleSchoolAdmin || r == RolePlatformOwner
}

// CanPostAnnouncements reports whether the role may post team-wide
// announcements visible to parents.
func CanPostAnnouncements(r Role) bool {
	return r == RoleHeadCoach || r == RolePlatformOwner
}

// CanViewPayments reports whether the role may see payment records.
func CanViewPayments(r Role) bool {
	return r == RoleHeadCoach || r == RoleSchoolAdmin || r == RolePlatformOwner
}

// CanCreateResources reports whether the role may create scoped resources
// (events, documents, inventory, depth charts, plays). Players and parents
// are denied at creation, before any scoping check.
func CanCreateResources(r Role) bool {
	return IsCoach(r) || r == RoleSchoolAdmin || r == RolePlatformOwner
}
