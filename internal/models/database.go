package models

import (
	"fmt"
	"os"

	"github.com/braikhq/braik/internal/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Team{},
		&Membership{},
		&Player{},
		&GuardianPlayer{},
		&Event{},
		&Document{},
		&InventoryItem{},
		&DepthChartEntry{},
		&Play{},
		&MessageThread{},
		&ThreadParticipant{},
		&Message{},
		&TeamBilling{},
		&PaymentRecord{},
		&AIProposal{},
		&Notification{},
		&AuditLog{},
		&RefreshToken{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the bootstrap platform owner account if no users
// exist yet. Credentials come from PLATFORM_OWNER_EMAIL / PLATFORM_OWNER_PASSWORD.
func SeedDefaultData() error {
	var userCount int64
	if err := DB.Model(&User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	email := os.Getenv("PLATFORM_OWNER_EMAIL")
	if email == "" {
		email = "owner@braik.local"
	}
	password := os.Getenv("PLATFORM_OWNER_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := User{
		Email:        email,
		Password:     string(hash),
		Name:         "Platform Owner",
		PlatformRole: "owner",
		IsActive:     true,
	}
	return DB.Create(&owner).Error
}
