package services

import (
	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

// DepthChartService manages per-unit depth charts. A unit's chart is replaced
// wholesale in one transaction; last write wins.
type DepthChartService struct {
	db      *gorm.DB
	scopes  *ScopeService
	billing *BillingService
}

func NewDepthChartService(db *gorm.DB, billing *BillingService) *DepthChartService {
	return &DepthChartService{db: db, scopes: NewScopeService(db), billing: billing}
}

type DepthChartSlot struct {
	PlayerID uint   `json:"player_id" binding:"required"`
	Position string `json:"position" binding:"required"`
	Rank     int    `json:"rank" binding:"required"`
}

type ReplaceDepthChartRequest struct {
	Unit  string           `json:"unit" binding:"required"`
	Slots []DepthChartSlot `json:"slots"`
}

type DepthChartResponse struct {
	Unit    string                   `json:"unit"`
	Entries []models.DepthChartEntry `json:"entries"`
	CanEdit bool                     `json:"can_edit"`
}

// canEditUnit reports whether the viewer may rewrite the given unit's chart.
// Head coaches edit any unit; a coordinator only their own.
func canEditUnit(v permissions.Viewer, unit permissions.Unit) bool {
	switch v.Scope.Kind {
	case permissions.ScopeProgramWide:
		return v.Role == permissions.RoleHeadCoach || v.Role == permissions.RolePlatformOwner ||
			v.Role == permissions.RoleAssistantCoach
	case permissions.ScopeUnit:
		return v.Scope.Unit == unit
	default:
		return false
	}
}

// Get returns a unit's depth chart if the viewer may see it.
func (s *DepthChartService) Get(teamID uint, unit string, v permissions.Viewer) (*DepthChartResponse, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	u := permissions.Unit(unit)
	if !permissions.ValidUnit(u) {
		return nil, response.NewBadRequest("invalid unit")
	}

	var entries []models.DepthChartEntry
	err := s.db.Where("team_id = ? AND scoped_unit = ?", teamID, unit).
		Order("position ASC, rank ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	// The chart itself is team-visible; per-entry scoping carries the unit.
	var visible []models.DepthChartEntry
	for _, e := range entries {
		rr := ruleResource(e.TeamID, e.CreatedBy, permissions.RoleHeadCoach, e.Scoping, false)
		if permissions.CanView(v, rr) {
			visible = append(visible, e)
		}
	}

	return &DepthChartResponse{
		Unit:    unit,
		Entries: visible,
		CanEdit: canEditUnit(v, u),
	}, nil
}

// Replace swaps the unit's entire chart in one transaction. Each slot's
// position must belong to the unit being edited.
func (s *DepthChartService) Replace(m permissions.Member, v permissions.Viewer, req *ReplaceDepthChartRequest) (*DepthChartResponse, error) {
	if _, err := s.billing.Require(m.TeamID, ActionEditDepthChart); err != nil {
		return nil, err
	}

	unit := permissions.Unit(req.Unit)
	if !permissions.ValidUnit(unit) {
		return nil, response.NewBadRequest("invalid unit")
	}

	if !canEditUnit(v, unit) {
		return nil, denyAndAudit(m.TeamID, v, "depth_chart", "replace",
			&permissions.Denial{Reason: "you may only edit the depth chart for your own unit"})
	}

	for _, slot := range req.Slots {
		posUnit, ok := permissions.UnitForPosition(slot.Position)
		if !ok {
			return nil, response.NewBadRequest("unknown position: " + slot.Position)
		}
		if posUnit != unit {
			return nil, response.NewBadRequest("position " + slot.Position + " does not belong to this unit")
		}
		if slot.Rank < 1 {
			return nil, response.NewBadRequest("rank must be 1 or greater")
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("team_id = ? AND scoped_unit = ?", m.TeamID, req.Unit).
			Delete(&models.DepthChartEntry{}).Error; err != nil {
			return err
		}

		for _, slot := range req.Slots {
			entry := &models.DepthChartEntry{
				TeamID:    m.TeamID,
				CreatedBy: m.UserID,
				Scoping: models.Scoping{
					Visibility: string(permissions.VisibilityTeam),
					ScopedUnit: req.Unit,
				},
				PlayerID: slot.PlayerID,
				Position: slot.Position,
				Rank:     slot.Rank,
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "depth_chart", "replace", "replaced "+req.Unit+" depth chart",
		map[string]interface{}{"unit": req.Unit, "slots": len(req.Slots)})

	return s.Get(m.TeamID, req.Unit, v)
}
