package services

import (
	"errors"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/logger"
	"github.com/braikhq/braik/pkg/response"
)

// ScopingRequest is the caller-supplied scoping for a new resource.
// At most one of unit / position groups / player IDs may be set.
type ScopingRequest struct {
	Visibility           string   `json:"visibility"`
	ScopedUnit           string   `json:"scoped_unit"`
	ScopedPositionGroups []string `json:"scoped_position_groups"`
	ScopedPlayerIDs      []uint   `json:"scoped_player_ids"`
}

// stampScoping validates the request and fixes the authoritative scoping
// dimension from the creator's resolved scope: program-wide creators may
// scope freely, coordinators are pinned to their unit, position-group
// coaches to (a subset of) their groups.
func stampScoping(m permissions.Member, v permissions.Viewer, req ScopingRequest) (models.Scoping, error) {
	vis := permissions.Visibility(req.Visibility)
	if req.Visibility == "" {
		vis = permissions.VisibilityTeam
	} else if !permissions.ValidVisibility(vis) {
		return models.Scoping{}, response.NewBadRequest("invalid visibility level")
	}

	set := 0
	if req.ScopedUnit != "" {
		if !permissions.ValidUnit(permissions.Unit(req.ScopedUnit)) {
			return models.Scoping{}, response.NewBadRequest("invalid unit")
		}
		set++
	}
	if len(req.ScopedPositionGroups) > 0 {
		set++
	}
	if len(req.ScopedPlayerIDs) > 0 {
		set++
	}
	if set > 1 {
		return models.Scoping{}, response.NewBadRequest("a resource may be scoped to a unit, position groups, or players, but not a combination")
	}

	sc := models.Scoping{Visibility: string(vis)}

	switch v.Scope.Kind {
	case permissions.ScopeProgramWide:
		sc.ScopedUnit = req.ScopedUnit
		sc.ScopedPositionGroups = models.JoinCSV(req.ScopedPositionGroups)
		sc.ScopedPlayerIDs = models.JoinIDs(req.ScopedPlayerIDs)

	case permissions.ScopeUnit:
		// Coordinator content always lives inside their unit.
		sc.ScopedUnit = string(v.Scope.Unit)
		sc.CoordinatorType = string(m.Assignment.CoordinatorType)

	case permissions.ScopePositionGroups:
		groups := req.ScopedPositionGroups
		if len(groups) == 0 {
			groups = v.Scope.PositionGroups
		} else {
			for _, g := range groups {
				if !containsGroup(v.Scope.PositionGroups, g) {
					return models.Scoping{}, response.NewBadRequest("cannot scope a resource to a position group you do not coach")
				}
			}
		}
		sc.ScopedPositionGroups = models.JoinCSV(groups)

	default:
		return models.Scoping{}, response.NewPermissionDenied("your role cannot create scoped resources")
	}

	return sc, nil
}

func containsGroup(groups []string, g string) bool {
	for _, x := range groups {
		if x == g {
			return true
		}
	}
	return false
}

// ruleResource converts a stored row's scoping columns into the shape the
// permissions package evaluates.
func ruleResource(teamID, createdBy uint, creatorRole permissions.Role, sc models.Scoping, locked bool) permissions.Resource {
	return permissions.Resource{
		TeamID:               teamID,
		CreatedBy:            createdBy,
		CreatorRole:          creatorRole,
		Visibility:           permissions.Visibility(sc.Visibility),
		ScopedUnit:           permissions.Unit(sc.ScopedUnit),
		ScopedPositionGroups: sc.PositionGroupList(),
		ScopedPlayerIDs:      sc.PlayerIDList(),
		CoordinatorType:      permissions.CoordinatorType(sc.CoordinatorType),
		Locked:               locked,
	}
}

// denyAndAudit logs a hierarchical denial and converts it into the typed
// permission error.
func denyAndAudit(teamID uint, v permissions.Viewer, module, action string, err error) error {
	var denial *permissions.Denial
	if errors.As(err, &denial) {
		logger.Denial(v.UserID, teamID, string(v.Role), response.KindPermissionDenied, denial.Reason)
		AuditDenied(teamID, v.UserID, module, action, denial.Reason)
		return response.NewPermissionDenied(denial.Reason)
	}
	return err
}
