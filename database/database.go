package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"retronova/config"
	"retronova/models"
)

var DB *gorm.DB

func Connect(cfg config.Config, logger *zap.Logger) error {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	DB = db
	logger.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	if cfg.AutoMigrate {
		logger.Info("starting auto-migration")
		if err := Migrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("auto-migration completed")
	}

	return nil
}

// Migrate creates or updates every table. Tests run it against an in-memory
// database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Arcade{},
		&models.ArcadeGame{},
		&models.Game{},
		&models.TicketOffer{},
		&models.TicketPurchase{},
		&models.PromoCode{},
		&models.PromoUse{},
		&models.Friendship{},
		&models.Reservation{},
		&models.Score{},
	)
}
