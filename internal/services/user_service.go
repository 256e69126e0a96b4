package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/mailer"
	"go-tasklist/backend/internal/models"
	"go-tasklist/backend/internal/repositories"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// Registration validation errors, in the order the checks run.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService holds registration, authentication and password-reset logic.
type UserService struct {
	userRepo       *repositories.UserRepository
	resetTokenRepo repositories.ResetTokenRepository
	sender         *mailer.Sender
	frontendURL    string
	logger         *logrus.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repositories.UserRepository, resetTokenRepo repositories.ResetTokenRepository, sender *mailer.Sender, frontendURL string, logger *logrus.Logger) *UserService {
	return &UserService{
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		sender:         sender,
		frontendURL:    frontendURL,
		logger:         logger,
	}
}

// Register validates and stores a new user. Checks run in a fixed order
// (presence, email format, password length, uniqueness) and all fail
// before anything is written. The duplicate-key error from the insert
// itself also maps to ErrEmailTaken, covering the pre-check race.
func (s *UserService) Register(req models.UserRegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.userRepo.FindByEmail(req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := repositories.HashPassword(req.Password)
	if err != nil {
		s.logger.Errorf("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	createdUser, err := s.userRepo.Create(newUser)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return createdUser, nil
}

// Authenticate checks credentials and returns the user on success.
func (s *UserService) Authenticate(req models.UserLoginRequest) (*models.User, error) {
	foundUser, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return foundUser, nil
}

// ForgotPassword issues a reset token and emails a reset link. An unknown
// email still reports success so the endpoint cannot be used to probe for
// accounts.
func (s *UserService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.Infof("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		s.logger.Errorf("Failed to generate reset token: %v", err)
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetToken := &models.PasswordResetToken{
		UserID:    uint(user.ID),
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.resetTokenRepo.Save(resetToken); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.sender.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		// Delivery failure must not leak account existence either.
		s.logger.Errorf("Failed to send reset email: %v", err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the user's password.
func (s *UserService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	resetToken, err := s.resetTokenRepo.FindByToken(token)
	if err != nil {
		return fmt.Errorf("invalid or expired token")
	}
	if time.Now().After(resetToken.ExpiresAt) {
		return fmt.Errorf("token expired")
	}
	if resetToken.UsedAt != nil {
		return fmt.Errorf("token already used")
	}

	hashedPassword, err := repositories.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(resetToken.UserID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.resetTokenRepo.MarkUsed(resetToken.ID); err != nil {
		// The password change already took effect.
		s.logger.Errorf("Failed to mark token as used: %v", err)
	}

	return nil
}

func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
