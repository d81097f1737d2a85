package services

import (
	"errors"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

var validConditions = map[string]bool{
	"new": true, "good": true, "worn": true, "retired": true,
}

type InventoryService struct {
	db      *gorm.DB
	scopes  *ScopeService
	billing *BillingService
}

func NewInventoryService(db *gorm.DB, billing *BillingService) *InventoryService {
	return &InventoryService{db: db, scopes: NewScopeService(db), billing: billing}
}

type CreateInventoryRequest struct {
	Name             string `json:"name" binding:"required"`
	Quantity         int    `json:"quantity"`
	AssignedPlayerID *uint  `json:"assigned_player_id"`
	Condition        string `json:"condition"`
	ScopingRequest
}

type UpdateInventoryRequest struct {
	Name             *string `json:"name"`
	Quantity         *int    `json:"quantity"`
	AssignedPlayerID *uint   `json:"assigned_player_id"`
	Condition        *string `json:"condition"`
}

type InventoryResponse struct {
	models.InventoryItem
	CanEdit   bool `json:"can_edit"`
	CanRemove bool `json:"can_remove"`
}

func (s *InventoryService) List(teamID uint, v permissions.Viewer) ([]InventoryResponse, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	var items []models.InventoryItem
	if err := s.db.Where("team_id = ?", teamID).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	creatorIDs := make([]uint, 0, len(items))
	for _, it := range items {
		creatorIDs = append(creatorIDs, it.CreatedBy)
	}
	creatorRoles, err := s.scopes.CreatorRoles(teamID, creatorIDs)
	if err != nil {
		return nil, err
	}

	var visible []InventoryResponse
	for _, it := range items {
		rr := ruleResource(it.TeamID, it.CreatedBy, creatorRoles[it.CreatedBy], it.Scoping, false)
		if !permissions.CanView(v, rr) {
			continue
		}
		visible = append(visible, InventoryResponse{
			InventoryItem: it,
			CanEdit:       permissions.CanEdit(v, rr),
			CanRemove:     permissions.CanRemove(v, rr),
		})
	}
	return visible, nil
}

func (s *InventoryService) Create(m permissions.Member, v permissions.Viewer, req *CreateInventoryRequest) (*models.InventoryItem, error) {
	if _, err := s.billing.Require(m.TeamID, ActionCreate); err != nil {
		return nil, err
	}

	if !permissions.CanCreateResources(m.Role) {
		return nil, denyAndAudit(m.TeamID, v, "inventory", "create", &permissions.Denial{Reason: "players and parents cannot manage inventory"})
	}

	sc, err := stampScoping(m, v, req.ScopingRequest)
	if err != nil {
		return nil, err
	}

	condition := req.Condition
	if condition == "" {
		condition = "good"
	} else if !validConditions[condition] {
		return nil, response.NewBadRequest("invalid condition")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := &models.InventoryItem{
		TeamID:           m.TeamID,
		CreatedBy:        m.UserID,
		Scoping:          sc,
		Name:             req.Name,
		Quantity:         quantity,
		AssignedPlayerID: req.AssignedPlayerID,
		Condition:        condition,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "inventory", "create", "added inventory item "+item.Name, map[string]interface{}{"item_id": item.ID})
	return item, nil
}

func (s *InventoryService) Update(id uint, m permissions.Member, v permissions.Viewer, req *UpdateInventoryRequest) (*models.InventoryItem, error) {
	if _, err := s.billing.Require(m.TeamID, ActionUpdate); err != nil {
		return nil, err
	}

	item, rr, err := s.loadItem(id, m.TeamID)
	if err != nil {
		return nil, err
	}

	if err := permissions.AuthorizeEdit(v, *rr); err != nil {
		return nil, denyAndAudit(m.TeamID, v, "inventory", "update", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil && *req.Quantity > 0 {
		item.Quantity = *req.Quantity
	}
	if req.AssignedPlayerID != nil {
		item.AssignedPlayerID = req.AssignedPlayerID
	}
	if req.Condition != nil {
		if !validConditions[*req.Condition] {
			return nil, response.NewBadRequest("invalid condition")
		}
		item.Condition = *req.Condition
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "inventory", "update", "updated inventory item "+item.Name, map[string]interface{}{"item_id": item.ID})
	return item, nil
}

func (s *InventoryService) Remove(id uint, m permissions.Member, v permissions.Viewer) error {
	if _, err := s.billing.Require(m.TeamID, ActionRemove); err != nil {
		return err
	}

	item, rr, err := s.loadItem(id, m.TeamID)
	if err != nil {
		return err
	}

	if err := permissions.AuthorizeRemove(v, *rr); err != nil {
		return denyAndAudit(m.TeamID, v, "inventory", "remove", err)
	}

	if err := s.db.Delete(item).Error; err != nil {
		return err
	}

	Audit(m.TeamID, m.UserID, "inventory", "remove", "removed inventory item "+item.Name, map[string]interface{}{"item_id": item.ID})
	return nil
}

func (s *InventoryService) loadItem(id, teamID uint) (*models.InventoryItem, *permissions.Resource, error) {
	var item models.InventoryItem
	if err := s.db.Where("id = ? AND team_id = ?", id, teamID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("inventory item not found")
		}
		return nil, nil, err
	}

	roles, err := s.scopes.CreatorRoles(teamID, []uint{item.CreatedBy})
	if err != nil {
		return nil, nil, err
	}

	rr := ruleResource(item.TeamID, item.CreatedBy, roles[item.CreatedBy], item.Scoping, false)
	return &item, &rr, nil
}
