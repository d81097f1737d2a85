package services

import (
	"errors"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"gorm.io/gorm"
)

type DocumentService struct {
	db      *gorm.DB
	scopes  *ScopeService
	billing *BillingService
}

func NewDocumentService(db *gorm.DB, billing *BillingService) *DocumentService {
	return &DocumentService{db: db, scopes: NewScopeService(db), billing: billing}
}

type CreateDocumentRequest struct {
	Title     string `json:"title" binding:"required"`
	FileKey   string `json:"file_key"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	ScopingRequest
}

type UpdateDocumentRequest struct {
	Title *string `json:"title"`
}

type DocumentResponse struct {
	models.Document
	CanEdit   bool `json:"can_edit"`
	CanRemove bool `json:"can_remove"`
}

func (s *DocumentService) List(teamID uint, v permissions.Viewer) ([]DocumentResponse, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	var docs []models.Document
	if err := s.db.Where("team_id = ?", teamID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}

	creatorIDs := make([]uint, 0, len(docs))
	for _, d := range docs {
		creatorIDs = append(creatorIDs, d.CreatedBy)
	}
	creatorRoles, err := s.scopes.CreatorRoles(teamID, creatorIDs)
	if err != nil {
		return nil, err
	}

	var visible []DocumentResponse
	for _, d := range docs {
		rr := ruleResource(d.TeamID, d.CreatedBy, creatorRoles[d.CreatedBy], d.Scoping, false)
		if !permissions.CanView(v, rr) {
			continue
		}
		visible = append(visible, DocumentResponse{
			Document:  d,
			CanEdit:   permissions.CanEdit(v, rr),
			CanRemove: permissions.CanRemove(v, rr),
		})
	}
	return visible, nil
}

func (s *DocumentService) Create(m permissions.Member, v permissions.Viewer, req *CreateDocumentRequest) (*models.Document, error) {
	if _, err := s.billing.Require(m.TeamID, ActionCreate); err != nil {
		return nil, err
	}

	if !permissions.CanCreateResources(m.Role) {
		return nil, denyAndAudit(m.TeamID, v, "documents", "create", &permissions.Denial{Reason: "players and parents cannot upload documents"})
	}

	sc, err := stampScoping(m, v, req.ScopingRequest)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		TeamID:    m.TeamID,
		CreatedBy: m.UserID,
		Scoping:   sc,
		Title:     req.Title,
		FileKey:   req.FileKey,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
	}
	if err := s.db.Create(doc).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "documents", "create", "uploaded document "+doc.Title, map[string]interface{}{"document_id": doc.ID})
	return doc, nil
}

func (s *DocumentService) Update(id uint, m permissions.Member, v permissions.Viewer, req *UpdateDocumentRequest) (*models.Document, error) {
	if _, err := s.billing.Require(m.TeamID, ActionUpdate); err != nil {
		return nil, err
	}

	doc, rr, err := s.loadDocument(id, m.TeamID)
	if err != nil {
		return nil, err
	}

	if err := permissions.AuthorizeEdit(v, *rr); err != nil {
		return nil, denyAndAudit(m.TeamID, v, "documents", "update", err)
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}

	if err := s.db.Save(doc).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "documents", "update", "updated document "+doc.Title, map[string]interface{}{"document_id": doc.ID})
	return doc, nil
}

func (s *DocumentService) Remove(id uint, m permissions.Member, v permissions.Viewer) error {
	if _, err := s.billing.Require(m.TeamID, ActionRemove); err != nil {
		return err
	}

	doc, rr, err := s.loadDocument(id, m.TeamID)
	if err != nil {
		return err
	}

	if err := permissions.AuthorizeRemove(v, *rr); err != nil {
		return denyAndAudit(m.TeamID, v, "documents", "remove", err)
	}

	if err := s.db.Delete(doc).Error; err != nil {
		return err
	}

	Audit(m.TeamID, m.UserID, "documents", "remove", "removed document "+doc.Title, map[string]interface{}{"document_id": doc.ID})
	return nil
}

func (s *DocumentService) loadDocument(id, teamID uint) (*models.Document, *permissions.Resource, error) {
	var doc models.Document
	if err := s.db.Where("id = ? AND team_id = ?", id, teamID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("document not found")
		}
		return nil, nil, err
	}

	roles, err := s.scopes.CreatorRoles(teamID, []uint{doc.CreatedBy})
	if err != nil {
		return nil, nil, err
	}

	rr := ruleResource(doc.TeamID, doc.CreatedBy, roles[doc.CreatedBy], doc.Scoping, false)
	return &doc, &rr, nil
}
