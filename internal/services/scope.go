package services

import (
	"errors"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

// ScopeService loads memberships and resolves the viewer scope used by every
// permission decision. Facts are re-read per request; nothing is cached
// across requests.
type ScopeService struct {
	db *gorm.DB
}

func NewScopeService(db *gorm.DB) *ScopeService {
	return &ScopeService{db: db}
}

// LoadMember loads the (userID, teamID) membership and decodes its stored
// assignment into the tagged form.
func (s *ScopeService) LoadMember(userID, teamID uint) (permissions.Member, error) {
	var m models.Membership
	err := s.db.Where("user_id = ? AND team_id = ?", userID, teamID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions.Member{}, response.NewMembershipNotFound("you are not a member of this team")
		}
		return permissions.Member{}, err
	}

	role := permissions.Role(m.Role)
	if !permissions.ValidRole(role) {
		return permissions.Member{}, response.NewMembershipNotFound("membership has an unknown role")
	}

	return permissions.Member{
		UserID:     m.UserID,
		TeamID:     m.TeamID,
		Role:       role,
		Assignment: permissions.DecodeAssignment(m.CoordinatorType, models.SplitCSV(m.PositionGroups)),
	}, nil
}

// Viewer resolves the member's scope, following the player self-lookup and
// guardian links where the role requires them.
func (s *ScopeService) Viewer(m permissions.Member) (permissions.Viewer, error) {
	var self *permissions.SelfPlayer
	var childIDs []uint

	switch m.Role {
	case permissions.RolePlayer:
		var p models.Player
		err := s.db.Where("user_id = ? AND team_id = ?", m.UserID, m.TeamID).First(&p).Error
		if err == nil {
			self = &permissions.SelfPlayer{PlayerID: p.ID, PositionGroup: p.PositionGroup}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions.Viewer{}, err
		}

	case permissions.RoleParent:
		err := s.db.Model(&models.GuardianPlayer{}).
			Joins("JOIN players ON players.id = guardian_players.player_id").
			Where("guardian_players.guardian_user_id = ? AND players.team_id = ?", m.UserID, m.TeamID).
			Pluck("guardian_players.player_id", &childIDs).Error
		if err != nil {
			return permissions.Viewer{}, err
		}
	}

	return permissions.NewViewer(m, self, childIDs), nil
}

// LoadViewer is the common path: membership plus resolved scope in one call.
func (s *ScopeService) LoadViewer(userID, teamID uint) (permissions.Member, permissions.Viewer, error) {
	m, err := s.LoadMember(userID, teamID)
	if err != nil {
		return permissions.Member{}, permissions.Viewer{}, err
	}
	v, err := s.Viewer(m)
	if err != nil {
		return permissions.Member{}, permissions.Viewer{}, err
	}
	return m, v, nil
}

// CreatorRoles bulk-loads the team role of each creator user ID. The
// visibility filter needs the creator's role for the parent rule.
func (s *ScopeService) CreatorRoles(teamID uint, userIDs []uint) (map[uint]permissions.Role, error) {
	roles := make(map[uint]permissions.Role, len(userIDs))
	if len(userIDs) == 0 {
		return roles, nil
	}

	var rows []models.Membership
	if err := s.db.Where("team_id = ? AND user_id IN ?", teamID, userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		roles[row.UserID] = permissions.Role(row.Role)
	}
	return roles, nil
}
