// Package testutil provides helpers for tests that run against a real
// MySQL instance. Tests are skipped when the test database is not
// reachable, so the suite stays green on machines without one.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"go-tasklist/backend/internal/config"
	"go-tasklist/backend/internal/models"
	"go-tasklist/backend/internal/repositories"
	"go-tasklist/backend/internal/routes"
)

// SetupTestDB connects to the test database, recreates the schema, seeds
// one known user (test@example.com / password123) and returns a fully
// wired router.
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TodoRepository, *repositories.UserRepository) {
	t.Helper()

	_ = godotenv.Load("../../.env")

	dbUser := os.Getenv("TEST_DB_USER")
	dbPass := os.Getenv("TEST_DB_PASS")
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbName := os.Getenv("TEST_DB_NAME")

	if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
		t.Skip("Skipping: TEST_DB_* environment variables are not set")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("Skipping: failed to open test database connection: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("Skipping: failed to ping test database: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	resetSchema(t, db)

	userRepo := repositories.NewUserRepository(db, logger)
	todoRepo := repositories.NewTodoRepository(db, logger)

	CreateTestUser(t, userRepo, "Test User", "test@example.com", "password123")

	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:   "test_very_secret_jwt_key_here",
		FrontendURL: "http://localhost:3000",
	}
	router := routes.SetupRouter(db, cfg, logger)

	return db, router, todoRepo, userRepo
}

func resetSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	// Truncation order does not matter with FK checks off.
	stmts := []string{
		"SET FOREIGN_KEY_CHECKS=0;",
		"DROP TABLE IF EXISTS password_reset_tokens",
		"DROP TABLE IF EXISTS todos",
		"DROP TABLE IF EXISTS users",
		"SET FOREIGN_KEY_CHECKS=1;",
		`CREATE TABLE users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE todos (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE password_reset_tokens (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			token VARCHAR(255) NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			used_at DATETIME NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to reset schema: %v", err)
		}
	}
}

// CreateTestUser inserts a user directly through the repository.
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, name, email, password string) *models.User {
	t.Helper()

	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	createdUser, err := userRepo.Create(&models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	require.NotZero(t, createdUser.ID)
	return createdUser
}

// CreateTestTodo creates a todo through the API under the given session.
func CreateTestTodo(t *testing.T, router *gin.Engine, token, title string, description *string) *models.Todo {
	t.Helper()

	payload := map[string]interface{}{"title": title}
	if description != nil {
		payload["description"] = *description
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest(http.MethodPost, "/todos", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "failed to create todo: %s", resp.Body.String())

	var createdTodo models.Todo
	err := json.Unmarshal(resp.Body.Bytes(), &createdTodo)
	require.NoError(t, err)
	return &createdTodo
}

// LoginAndGetToken signs in through the API and returns the session token.
func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	token, ok := loginRes["token"].(string)
	if !ok {
		return "", errors.New("token not found or not a string in login response")
	}
	return token, nil
}

// SetTodoCreatedAt rewrites a todo's creation timestamp, letting ordering
// tests stagger rows without sleeping through DATETIME ticks.
func SetTodoCreatedAt(t *testing.T, db *sql.DB, todoID int, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec("UPDATE todos SET created_at = ? WHERE id = ?", createdAt, todoID)
	require.NoError(t, err)
}
