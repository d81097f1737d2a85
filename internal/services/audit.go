package services

import (
	"encoding/json"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/pkg/logger"
	"gorm.io/gorm"
)

var auditDB *gorm.DB

// InitAudit wires the global audit sink. Audit writes are fire-and-forget:
// a failed audit insert never blocks the mutation it records.
func InitAudit(db *gorm.DB) {
	auditDB = db
}

// Audit records an allowed mutation.
func Audit(teamID, actorID uint, module, action, message string, metadata interface{}) {
	writeAudit(teamID, actorID, module, action, message, false, metadata)
}

// AuditDenied records a refused attempt together with the denial reason.
func AuditDenied(teamID, actorID uint, module, action, reason string) {
	writeAudit(teamID, actorID, module, action, reason, true, nil)
}

func writeAudit(teamID, actorID uint, module, action, message string, denied bool, metadata interface{}) {
	if auditDB == nil {
		return
	}

	var metaStr string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaStr = string(b)
		}
	}

	var actor *uint
	if actorID > 0 {
		actor = &actorID
	}

	entry := &models.AuditLog{
		TeamID:      teamID,
		ActorUserID: actor,
		Module:      module,
		Action:      action,
		Message:     message,
		Denied:      denied,
		Metadata:    metaStr,
		CreatedAt:   time.Now(),
	}
	if err := auditDB.Create(entry).Error; err != nil {
		logger.Warn().Err(err).Str("module", module).Str("action", action).Msg("audit write failed")
	}
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Module   string `form:"module"`
	Denied   *bool  `form:"denied"`
}

type AuditListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.AuditLog `json:"items"`
}

func (s *AuditService) List(teamID uint, req *AuditListRequest) (*AuditListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.AuditLog{}).Where("team_id = ?", teamID)
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Denied != nil {
		query = query.Where("denied = ?", *req.Denied)
	}

	var total int64
	query.Count(&total)

	var items []models.AuditLog
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &AuditListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// CleanupOldLogs deletes audit entries older than retentionDays.
func (s *AuditService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartAuditCleanupScheduler periodically prunes old audit entries.
func StartAuditCleanupScheduler(db *gorm.DB, retentionDays int) {
	go func() {
		service := NewAuditService(db)

		runAuditCleanup(service, retentionDays)

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			runAuditCleanup(service, retentionDays)
		}
	}()
}

func runAuditCleanup(service *AuditService, retentionDays int) {
	deleted, err := service.CleanupOldLogs(retentionDays)
	if err != nil {
		logger.Warnf("[Audit] Failed to cleanup old logs: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("[Audit] Cleaned up %d entries older than %d days", deleted, retentionDays)
	}
}
