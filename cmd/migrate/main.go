package main

import (
	"os"

	"github.com/bellapacxx/bingo-caller/config"
	"github.com/bellapacxx/bingo-caller/utils/logger"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Errorf("[FATAL] DATABASE_URL is required")
		os.Exit(1)
	}

	// SetupDatabase connects and migrates.
	if _, err := config.SetupDatabase(cfg.DatabaseURL); err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	logger.Infof("✅ Database migration completed successfully")
}
