package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/config"
	"go-tasklist/backend/internal/database"
	"go-tasklist/backend/internal/repositories"
	"go-tasklist/backend/internal/routes"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load .env if present; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		logger.Infof("No .env file loaded: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Connected to MySQL database")

	// Hourly sweep of used/expired password reset tokens.
	resetRepo := repositories.NewMySQLResetTokenRepo(db)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		if err := resetRepo.CleanupExpired(); err != nil {
			logger.Errorf("Reset token cleanup failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule reset token cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.SetupRouter(db, cfg, logger)

	logger.Infof("Server listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
