package services

import (
	"errors"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

// PlayService manages the playbook. Plays default to coaches-only visibility;
// position scoping keeps an offensive install invisible to the defense.
type PlayService struct {
	db      *gorm.DB
	scopes  *ScopeService
	billing *BillingService
}

func NewPlayService(db *gorm.DB, billing *BillingService) *PlayService {
	return &PlayService{db: db, scopes: NewScopeService(db), billing: billing}
}

type CreatePlayRequest struct {
	Name      string `json:"name" binding:"required"`
	Formation string `json:"formation"`
	Diagram   string `json:"diagram"`
	ScopingRequest
}

type UpdatePlayRequest struct {
	Name      *string `json:"name"`
	Formation *string `json:"formation"`
	Diagram   *string `json:"diagram"`
}

type PlayResponse struct {
	models.Play
	CanEdit   bool `json:"can_edit"`
	CanRemove bool `json:"can_remove"`
}

func (s *PlayService) List(teamID uint, v permissions.Viewer) ([]PlayResponse, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	var plays []models.Play
	if err := s.db.Where("team_id = ?", teamID).Order("name ASC").Find(&plays).Error; err != nil {
		return nil, err
	}

	creatorIDs := make([]uint, 0, len(plays))
	for _, p := range plays {
		creatorIDs = append(creatorIDs, p.CreatedBy)
	}
	creatorRoles, err := s.scopes.CreatorRoles(teamID, creatorIDs)
	if err != nil {
		return nil, err
	}

	var visible []PlayResponse
	for _, p := range plays {
		rr := ruleResource(p.TeamID, p.CreatedBy, creatorRoles[p.CreatedBy], p.Scoping, false)
		if !permissions.CanView(v, rr) {
			continue
		}
		visible = append(visible, PlayResponse{
			Play:      p,
			CanEdit:   permissions.CanEdit(v, rr),
			CanRemove: permissions.CanRemove(v, rr),
		})
	}
	return visible, nil
}

func (s *PlayService) Create(m permissions.Member, v permissions.Viewer, req *CreatePlayRequest) (*models.Play, error) {
	if _, err := s.billing.Require(m.TeamID, ActionCreate); err != nil {
		return nil, err
	}

	if !permissions.CanCreateResources(m.Role) {
		return nil, denyAndAudit(m.TeamID, v, "plays", "create", &permissions.Denial{Reason: "players and parents cannot create plays"})
	}

	// Plays default to coaches-only unless the creator widens them.
	if req.Visibility == "" {
		req.Visibility = string(permissions.VisibilityCoachesOnly)
	}

	sc, err := stampScoping(m, v, req.ScopingRequest)
	if err != nil {
		return nil, err
	}

	play := &models.Play{
		TeamID:    m.TeamID,
		CreatedBy: m.UserID,
		Scoping:   sc,
		Name:      req.Name,
		Formation: req.Formation,
		Diagram:   req.Diagram,
	}
	if err := s.db.Create(play).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "plays", "create", "created play "+play.Name, map[string]interface{}{"play_id": play.ID})
	return play, nil
}

func (s *PlayService) Update(id uint, m permissions.Member, v permissions.Viewer, req *UpdatePlayRequest) (*models.Play, error) {
	if _, err := s.billing.Require(m.TeamID, ActionUpdate); err != nil {
		return nil, err
	}

	play, rr, err := s.loadPlay(id, m.TeamID)
	if err != nil {
		return nil, err
	}

	if err := permissions.AuthorizeEdit(v, *rr); err != nil {
		return nil, denyAndAudit(m.TeamID, v, "plays", "update", err)
	}

	if req.Name != nil {
		play.Name = *req.Name
	}
	if req.Formation != nil {
		play.Formation = *req.Formation
	}
	if req.Diagram != nil {
		play.Diagram = *req.Diagram
	}

	if err := s.db.Save(play).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "plays", "update", "updated play "+play.Name, map[string]interface{}{"play_id": play.ID})
	return play, nil
}

func (s *PlayService) Remove(id uint, m permissions.Member, v permissions.Viewer) error {
	if _, err := s.billing.Require(m.TeamID, ActionRemove); err != nil {
		return err
	}

	play, rr, err := s.loadPlay(id, m.TeamID)
	if err != nil {
		return err
	}

	if err := permissions.AuthorizeRemove(v, *rr); err != nil {
		return denyAndAudit(m.TeamID, v, "plays", "remove", err)
	}

	if err := s.db.Delete(play).Error; err != nil {
		return err
	}

	Audit(m.TeamID, m.UserID, "plays", "remove", "removed play "+play.Name, map[string]interface{}{"play_id": play.ID})
	return nil
}

func (s *PlayService) loadPlay(id, teamID uint) (*models.Play, *permissions.Resource, error) {
	var play models.Play
	if err := s.db.Where("id = ? AND team_id = ?", id, teamID).First(&play).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("play not found")
		}
		return nil, nil, err
	}

	roles, err := s.scopes.CreatorRoles(teamID, []uint{play.CreatedBy})
	if err != nil {
		return nil, nil, err
	}

	rr := ruleResource(play.TeamID, play.CreatedBy, roles[play.CreatedBy], play.Scoping, false)
	return &play, &rr, nil
}
