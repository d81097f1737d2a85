package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Scoping carries the shared visibility and scoping columns of every scoped
// resource. At most one of unit / position groups / player IDs is set; all
// empty means program-wide.
type Scoping struct {
	Visibility           string `gorm:"size:50;default:TEAM" json:"visibility"`
	ScopedUnit           string `gorm:"size:50" json:"scoped_unit"`
	ScopedPositionGroups string `gorm:"size:200" json:"scoped_position_groups"` // CSV
	ScopedPlayerIDs      string `gorm:"size:1000" json:"scoped_player_ids"`     // CSV of IDs
	CoordinatorType      string `gorm:"size:50" json:"coordinator_type"`
}

// PositionGroupList splits the CSV position group column.
func (s Scoping) PositionGroupList() []string {
	return SplitCSV(s.ScopedPositionGroups)
}

// PlayerIDList splits the CSV player ID column.
func (s Scoping) PlayerIDList() []uint {
	var ids []uint
	for _, part := range SplitCSV(s.ScopedPlayerIDs) {
		if n, err := strconv.ParseUint(part, 10, 32); err == nil {
			ids = append(ids, uint(n))
		}
	}
	return ids
}

// SplitCSV splits a comma-separated column into trimmed non-empty parts.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinCSV is the inverse of SplitCSV.
func JoinCSV(parts []string) string {
	return strings.Join(parts, ",")
}

// JoinIDs renders player IDs back into the CSV column.
func JoinIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ",")
}

// Event is a calendar entry: practice, game, meeting.
type Event struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeamID    uint `gorm:"index;not null" json:"team_id"`
	CreatedBy uint `gorm:"not null" json:"created_by"`
	Scoping
	Title     string         `gorm:"size:300;not null" json:"title"`
	Notes     string         `gorm:"type:text" json:"notes"`
	EventType string         `gorm:"size:50;default:practice" json:"event_type"` // practice, game, meeting
	Location  string         `gorm:"size:300" json:"location"`
	StartsAt  time.Time      `gorm:"index;not null" json:"starts_at"`
	EndsAt    *time.Time     `json:"ends_at"`
	Locked    bool           `gorm:"default:false" json:"locked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Document is an uploaded file reference (storage itself is external).
type Document struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeamID    uint `gorm:"index;not null" json:"team_id"`
	CreatedBy uint `gorm:"not null" json:"created_by"`
	Scoping
	Title     string         `gorm:"size:300;not null" json:"title"`
	FileKey   string         `gorm:"size:500" json:"file_key"`
	MimeType  string         `gorm:"size:100" json:"mime_type"`
	SizeBytes int64          `json:"size_bytes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// InventoryItem is a piece of tracked equipment.
type InventoryItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeamID    uint `gorm:"index;not null" json:"team_id"`
	CreatedBy uint `gorm:"not null" json:"created_by"`
	Scoping
	Name             string         `gorm:"size:300;not null" json:"name"`
	Quantity         int            `gorm:"default:1" json:"quantity"`
	AssignedPlayerID *uint          `json:"assigned_player_id"`
	Condition        string         `gorm:"size:50;default:good" json:"condition"` // new, good, worn, retired
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// DepthChartEntry places a player at a slot on a unit's depth chart.
type DepthChartEntry struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeamID    uint `gorm:"index;not null" json:"team_id"`
	CreatedBy uint `gorm:"not null" json:"created_by"`
	Scoping
	PlayerID  uint           `gorm:"index;not null" json:"player_id"`
	Position  string         `gorm:"size:20;not null" json:"position"`
	Rank      int            `gorm:"not null" json:"rank"` // 1 = starter
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Play is a playbook entry.
type Play struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeamID    uint `gorm:"index;not null" json:"team_id"`
	CreatedBy uint `gorm:"not null" json:"created_by"`
	Scoping
	Name      string         `gorm:"size:200;not null" json:"name"`
	Formation string         `gorm:"size:100" json:"formation"`
	Diagram   string         `gorm:"type:text" json:"diagram"` // JSON canvas data
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string           { return "events" }
func (Document) TableName() string        { return "documents" }
func (InventoryItem) TableName() string   { return "inventory_items" }
func (DepthChartEntry) TableName() string { return "depth_chart_entries" }
func (Play) TableName() string            { return "plays" }
