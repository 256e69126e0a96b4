package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"go-tasklist/backend/internal/models"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenRepository stores password reset tokens.
type ResetTokenRepository interface {
	Save(token *models.PasswordResetToken) error
	FindByToken(token string) (*models.PasswordResetToken, error)
	MarkUsed(id uint) error
	CleanupExpired() error
}

// MySQLResetTokenRepo is the MySQL-backed ResetTokenRepository.
type MySQLResetTokenRepo struct {
	DB *sql.DB
}

func NewMySQLResetTokenRepo(db *sql.DB) *MySQLResetTokenRepo {
	return &MySQLResetTokenRepo{DB: db}
}

func (r *MySQLResetTokenRepo) Save(t *models.PasswordResetToken) error {
	_, err := r.DB.Exec(
		"INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?, ?, ?)",
		t.UserID, t.Token, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("could not save reset token: %w", err)
	}
	return nil
}

func (r *MySQLResetTokenRepo) FindByToken(token string) (*models.PasswordResetToken, error) {
	query := "SELECT id, user_id, token, expires_at, used_at FROM password_reset_tokens WHERE token = ?"

	var pr models.PasswordResetToken
	var usedAt sql.NullTime
	err := r.DB.QueryRow(query, token).Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("could not query reset token: %w", err)
	}
	if usedAt.Valid {
		pr.UsedAt = &usedAt.Time
	}

	return &pr, nil
}

func (r *MySQLResetTokenRepo) MarkUsed(id uint) error {
	_, err := r.DB.Exec("UPDATE password_reset_tokens SET used_at = NOW() WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not mark reset token used: %w", err)
	}
	return nil
}

// CleanupExpired drops used and expired tokens. Scheduled from main via
// cron; safe to run at any time.
func (r *MySQLResetTokenRepo) CleanupExpired() error {
	_, err := r.DB.Exec(`
		DELETE FROM password_reset_tokens
		WHERE used_at IS NOT NULL
		   OR expires_at < NOW()
	`)
	if err != nil {
		return fmt.Errorf("could not clean up reset tokens: %w", err)
	}
	return nil
}
