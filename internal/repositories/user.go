// Package repositories provides the database access layer.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"go-tasklist/backend/internal/models"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUserNotFound   = errors.New("user not found")
)

// UserRepository performs user table operations.
type UserRepository struct {
	DB     *sql.DB
	logger *logrus.Logger
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{DB: db, logger: logger}
}

// HashPassword hashes a plaintext password with bcrypt (cost 10).
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword compares a bcrypt hash against a plaintext candidate.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Create inserts a new user and returns the stored row. A unique-key
// violation on email maps to ErrDuplicateEmail so the race between the
// service's pre-check and the insert still surfaces as "already exists".
func (r *UserRepository) Create(u *models.User) (*models.User, error) {
	query := "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)"
	result, err := r.DB.Exec(query, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrDuplicateEmail
		}
		r.logger.Errorf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	// Re-read so the caller sees the DB-assigned timestamps.
	return r.FindByID(int(id))
}

// FindByEmail looks a user up by email address.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	query := "SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?"
	var u models.User
	err := r.DB.QueryRow(query, email).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.logger.Errorf("Failed to query user by email: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// FindByID looks a user up by primary key.
func (r *UserRepository) FindByID(id int) (*models.User, error) {
	query := "SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = ?"
	var u models.User
	err := r.DB.QueryRow(query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.logger.Errorf("Failed to query user by ID: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(userID uint, newHash string) error {
	res, err := r.DB.Exec("UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", newHash, userID)
	if err != nil {
		r.logger.Errorf("Failed to update password: %v", err)
		return fmt.Errorf("could not update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
