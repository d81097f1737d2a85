package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform account. Team-level roles live on Membership.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"` // bcrypt hash
	Name         string         `gorm:"size:200" json:"name"`
	Avatar       string         `gorm:"size:500" json:"avatar"`
	PlatformRole string         `gorm:"size:50;default:user" json:"platform_role"` // owner, user
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Team represents a single program (the tenant boundary).
type Team struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:200;not null" json:"name"`
	Sport         string         `gorm:"size:50;default:football" json:"sport"`
	SchoolLevel   string         `gorm:"size:50;default:high_school" json:"school_level"` // youth, middle_school, high_school
	SeasonStart   *time.Time     `json:"season_start"`
	SeasonEnd     *time.Time     `json:"season_end"`
	FirstGameWeek *time.Time     `json:"first_game_week"` // billing grace window ends here
	InviteCode    string         `gorm:"size:64;index" json:"-"`
	CreatedBy     uint           `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Membership links a user to a team with a role and coaching assignment.
// Exactly one row per (team, user).
type Membership struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TeamID          uint           `gorm:"uniqueIndex:idx_team_user;not null" json:"team_id"`
	Team            *Team          `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	UserID          uint           `gorm:"uniqueIndex:idx_team_user;not null" json:"user_id"`
	User            *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role            string         `gorm:"size:50;not null" json:"role"`
	CoordinatorType string         `gorm:"size:50" json:"coordinator_type"` // OFFENSIVE_COORDINATOR, ...
	PositionGroups  string         `gorm:"size:200" json:"position_groups"` // CSV of group codes
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Player is a roster entry. UserID is set once the player claims an account.
type Player struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TeamID        uint           `gorm:"index;not null" json:"team_id"`
	UserID        *uint          `gorm:"index" json:"user_id"`
	Name          string         `gorm:"size:200;not null" json:"name"`
	PositionGroup string         `gorm:"size:20" json:"position_group"`
	JerseyNumber  *int           `json:"jersey_number"`
	Status        string         `gorm:"size:50;default:active" json:"status"` // active, injured, inactive
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// GuardianPlayer links a guardian user to a player for parent scoping.
type GuardianPlayer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	GuardianUserID uint      `gorm:"uniqueIndex:idx_guardian_player;not null" json:"guardian_user_id"`
	PlayerID       uint      `gorm:"uniqueIndex:idx_guardian_player;not null" json:"player_id"`
	Player         *Player   `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Relationship   string    `gorm:"size:50" json:"relationship"` // mother, father, guardian
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides
func (User) TableName() string           { return "users" }
func (Team) TableName() string           { return "teams" }
func (Membership) TableName() string     { return "memberships" }
func (Player) TableName() string         { return "players" }
func (GuardianPlayer) TableName() string { return "guardian_players" }
