package database

import (
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(databaseURL string, production bool) (*gorm.DB, error) {
	level := logger.Info
	if production {
		level = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.ReviewLike{},
		&models.Page{},
		&models.FAQ{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistItem{},
		&models.SupportTicket{},
		&models.SupportMessage{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
}
