package database

import (
	"log"
	"time"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/config"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		if cfg.DBDSN != "" {
			DB, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
		} else {
			DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		}
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Framework{},
		&models.Requirement{},
		&models.Mapping{},
		&models.RequirementMapping{},
		&models.ThreatGroup{},
		&models.ThreatGroupMap{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin(cfg)
}

// admin only from config, never from request input
func createDefaultAdmin(cfg *config.Config) {
	username := cfg.AdminUsername
	if username == "" {
		username = "admin@compliance.local"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s", username)
}
