// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
)

// Config holds application configuration.
type Config struct {
	Port        string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	LogLevel    string
	JWTSecret   string
	FrontendURL string

	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	SenderEmail string
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUser:      getEnv("DB_USER", ""),
		DBPass:      getEnv("DB_PASS", ""),
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBName:      getEnv("DB_NAME", "tasklist"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		SMTPHost:    getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:    getEnv("SMTP_PORT", "2525"),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail: getEnv("SENDER_EMAIL", "no-reply@tasklist.local"),
	}

	if cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// DSN builds the MySQL data source name. parseTime is required so
// DATETIME columns scan into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
