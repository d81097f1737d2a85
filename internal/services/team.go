package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

// defaultSubscriptionCents is the season subscription before any custom
// pricing is attached via Stripe.
const defaultSubscriptionCents int64 = 100000

type TeamService struct {
	db     *gorm.DB
	scopes *ScopeService
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db, scopes: NewScopeService(db)}
}

type CreateTeamRequest struct {
	Name          string     `json:"name" binding:"required"`
	Sport         string     `json:"sport"`
	SchoolLevel   string     `json:"school_level"`
	SeasonStart   *time.Time `json:"season_start"`
	SeasonEnd     *time.Time `json:"season_end"`
	FirstGameWeek *time.Time `json:"first_game_week"`
}

type JoinTeamRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
	Role       string `json:"role" binding:"required"` // PLAYER or PARENT
}

type AssignRoleRequest struct {
	Role            string   `json:"role" binding:"required"`
	CoordinatorType string   `json:"coordinator_type"`
	PositionGroups  []string `json:"position_groups"`
}

type AddPlayerRequest struct {
	Name          string `json:"name" binding:"required"`
	PositionGroup string `json:"position_group"`
	JerseyNumber  *int   `json:"jersey_number"`
	UserID        *uint  `json:"user_id"`
}

type LinkGuardianRequest struct {
	GuardianUserID uint   `json:"guardian_user_id" binding:"required"`
	PlayerID       uint   `json:"player_id" binding:"required"`
	Relationship   string `json:"relationship"`
}

// Create provisions a team with the creator as head coach and a billing
// record starting in the grace window.
func (s *TeamService) Create(userID uint, req *CreateTeamRequest) (*models.Team, error) {
	sport := req.Sport
	if sport == "" {
		sport = "football"
	}
	schoolLevel := req.SchoolLevel
	if schoolLevel == "" {
		schoolLevel = "high_school"
	}

	invite, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	var team models.Team
	err = s.db.Transaction(func(tx *gorm.DB) error {
		team = models.Team{
			Name:          req.Name,
			Sport:         sport,
			SchoolLevel:   schoolLevel,
			SeasonStart:   req.SeasonStart,
			SeasonEnd:     req.SeasonEnd,
			FirstGameWeek: req.FirstGameWeek,
			InviteCode:    invite,
			CreatedBy:     userID,
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		membership := models.Membership{
			TeamID: team.ID,
			UserID: userID,
			Role:   string(permissions.RoleHeadCoach),
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		billing := models.TeamBilling{
			TeamID:             team.ID,
			SubscriptionAmount: defaultSubscriptionCents,
		}
		return tx.Create(&billing).Error
	})
	if err != nil {
		return nil, err
	}

	Audit(team.ID, userID, "teams", "create", "created team "+team.Name, nil)
	return &team, nil
}

// Join adds a user to a team via invite code. Invites only grant PLAYER or
// PARENT; coaching roles are assigned by the head coach.
func (s *TeamService) Join(userID uint, req *JoinTeamRequest) (*models.Membership, error) {
	role := permissions.Role(req.Role)
	if role != permissions.RolePlayer && role != permissions.RoleParent {
		return nil, response.NewBadRequest("invite codes grant only the PLAYER or PARENT role")
	}

	var team models.Team
	if err := s.db.Where("invite_code = ?", req.InviteCode).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invalid invite code")
		}
		return nil, err
	}

	var existing int64
	s.db.Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", team.ID, userID).Count(&existing)
	if existing > 0 {
		return nil, response.NewConflict("you are already a member of this team")
	}

	membership := &models.Membership{
		TeamID: team.ID,
		UserID: userID,
		Role:   string(role),
	}
	if err := s.db.Create(membership).Error; err != nil {
		return nil, err
	}

	Audit(team.ID, userID, "teams", "join", "joined as "+req.Role, nil)
	return membership, nil
}

// Get returns the team for a member.
func (s *TeamService) Get(teamID, userID uint) (*models.Team, error) {
	if _, err := s.scopes.LoadMember(userID, teamID); err != nil {
		return nil, err
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("team not found")
		}
		return nil, err
	}
	return &team, nil
}

// ListForUser returns every team the user belongs to.
func (s *TeamService) ListForUser(userID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := s.db.Preload("Team").Where("user_id = ?", userID).Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// AssignRole sets a member's role and coaching assignment. Head coach only.
// An assignment is either a coordinator type or position groups, never both.
func (s *TeamService) AssignRole(teamID, actorID, targetUserID uint, req *AssignRoleRequest) (*models.Membership, error) {
	actor, err := s.scopes.LoadMember(actorID, teamID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanManageTeam(actor.Role) {
		AuditDenied(teamID, actorID, "teams", "assign_role", "only the head coach can assign roles")
		return nil, response.NewPermissionDenied("only the head coach can assign roles")
	}

	role := permissions.Role(req.Role)
	if !permissions.ValidRole(role) {
		return nil, response.NewBadRequest("unknown role")
	}

	if req.CoordinatorType != "" && len(req.PositionGroups) > 0 {
		return nil, response.NewBadRequest("a coach is either a coordinator or a position group coach, not both")
	}
	if req.CoordinatorType != "" {
		if _, ok := permissions.UnitForCoordinator(permissions.CoordinatorType(req.CoordinatorType)); !ok {
			return nil, response.NewBadRequest("unknown coordinator type")
		}
	}
	for _, g := range req.PositionGroups {
		if _, ok := permissions.UnitForPosition(g); !ok {
			return nil, response.NewBadRequest("unknown position group: " + g)
		}
	}
	if role != permissions.RoleAssistantCoach && (req.CoordinatorType != "" || len(req.PositionGroups) > 0) {
		return nil, response.NewBadRequest("coaching assignments apply only to assistant coaches")
	}

	var membership models.Membership
	if err := s.db.Where("team_id = ? AND user_id = ?", teamID, targetUserID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("member not found")
		}
		return nil, err
	}

	// A team must always have a head coach.
	if membership.Role == string(permissions.RoleHeadCoach) && role != permissions.RoleHeadCoach {
		var headCount int64
		s.db.Model(&models.Membership{}).
			Where("team_id = ? AND role = ?", teamID, string(permissions.RoleHeadCoach)).
			Count(&headCount)
		if headCount <= 1 {
			return nil, response.NewConflict("a team must keep at least one head coach")
		}
	}

	membership.Role = string(role)
	membership.CoordinatorType = req.CoordinatorType
	membership.PositionGroups = models.JoinCSV(req.PositionGroups)

	if err := s.db.Save(&membership).Error; err != nil {
		return nil, err
	}

	Audit(teamID, actorID, "teams", "assign_role", "assigned "+req.Role,
		map[string]interface{}{"target_user_id": targetUserID, "coordinator_type": req.CoordinatorType})
	return &membership, nil
}

// Members lists the team's memberships.
func (s *TeamService) Members(teamID, userID uint) ([]models.Membership, error) {
	if _, err := s.scopes.LoadMember(userID, teamID); err != nil {
		return nil, err
	}

	var members []models.Membership
	err := s.db.Preload("User").Where("team_id = ?", teamID).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Roster lists the team's players.
func (s *TeamService) Roster(teamID, userID uint) ([]models.Player, error) {
	if _, err := s.scopes.LoadMember(userID, teamID); err != nil {
		return nil, err
	}

	var players []models.Player
	err := s.db.Where("team_id = ?", teamID).
		Order("position_group ASC, name ASC").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// AddPlayer adds a roster entry. Coaches with roster rights only.
func (s *TeamService) AddPlayer(teamID, actorID uint, req *AddPlayerRequest) (*models.Player, error) {
	actor, err := s.scopes.LoadMember(actorID, teamID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanEditRoster(actor.Role) {
		AuditDenied(teamID, actorID, "roster", "add_player", "your role cannot edit the roster")
		return nil, response.NewPermissionDenied("your role cannot edit the roster")
	}

	if req.PositionGroup != "" {
		if _, ok := permissions.UnitForPosition(req.PositionGroup); !ok {
			return nil, response.NewBadRequest("unknown position group: " + req.PositionGroup)
		}
	}

	player := &models.Player{
		TeamID:        teamID,
		UserID:        req.UserID,
		Name:          req.Name,
		PositionGroup: req.PositionGroup,
		JerseyNumber:  req.JerseyNumber,
		Status:        "active",
	}
	if err := s.db.Create(player).Error; err != nil {
		return nil, err
	}

	Audit(teamID, actorID, "roster", "add_player", "added player "+player.Name,
		map[string]interface{}{"player_id": player.ID})
	return player, nil
}

// LinkGuardian connects a guardian account to a player. The guardian must
// already hold a PARENT membership on the team.
func (s *TeamService) LinkGuardian(teamID, actorID uint, req *LinkGuardianRequest) (*models.GuardianPlayer, error) {
	actor, err := s.scopes.LoadMember(actorID, teamID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanEditRoster(actor.Role) {
		AuditDenied(teamID, actorID, "roster", "link_guardian", "your role cannot manage guardian links")
		return nil, response.NewPermissionDenied("your role cannot manage guardian links")
	}

	guardian, err := s.scopes.LoadMember(req.GuardianUserID, teamID)
	if err != nil {
		return nil, err
	}
	if guardian.Role != permissions.RoleParent {
		return nil, response.NewBadRequest("the guardian must have the PARENT role on this team")
	}

	var player models.Player
	if err := s.db.Where("id = ? AND team_id = ?", req.PlayerID, teamID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("player not found")
		}
		return nil, err
	}

	link := &models.GuardianPlayer{
		GuardianUserID: req.GuardianUserID,
		PlayerID:       req.PlayerID,
		Relationship:   req.Relationship,
	}
	if err := s.db.Create(link).Error; err != nil {
		return nil, response.NewConflict("this guardian is already linked to the player")
	}

	Audit(teamID, actorID, "roster", "link_guardian", "linked guardian to "+player.Name,
		map[string]interface{}{"guardian_user_id": req.GuardianUserID, "player_id": req.PlayerID})
	return link, nil
}

func generateInviteCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
