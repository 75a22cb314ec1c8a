package config

import (
	"fmt"

	"github.com/bellapacxx/bingo-caller/models"
	"github.com/bellapacxx/bingo-caller/utils/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupDatabase connects to Postgres and runs migrations.
func SetupDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Infof("[DB] connected and migrated")
	return db, nil
}

// Migrate creates or updates the archive tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Game{}, &models.Call{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
