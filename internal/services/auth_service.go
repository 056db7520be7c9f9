// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/apperrors"
	"github.com/restitch/restitch-backend/internal/config"
	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/utils"
)

type AuthService struct {
	db           *gorm.DB
	cfg          *config.Config
	notification *NotificationService
}

type RegisterRequest struct {
	FullName string          `json:"full_name" validate:"required,min=1,max=255"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"` // in seconds
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// LoginContext carries request metadata recorded on the session audit row.
type LoginContext struct {
	IPAddress string
	UserAgent string
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notification *NotificationService) *AuthService {
	return &AuthService{
		db:           db,
		cfg:          cfg,
		notification: notification,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, apperrors.InvalidRequest("user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	confirmationToken, err := utils.GenerateVerificationToken()
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate confirmation token: %w", err))
	}

	user := &models.User{
		FullName:          req.FullName,
		Email:             req.Email,
		Role:              req.Role,
		ConfirmationToken: confirmationToken,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	// Registration succeeds even when the confirmation email cannot be sent.
	if err := s.notification.SendConfirmationEmail(user, confirmationToken); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("Failed to send confirmation email")
	}

	return user, nil
}

func (s *AuthService) Login(req *LoginRequest, loginCtx LoginContext) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Internal(err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if !user.EmailConfirmed() {
		return nil, apperrors.Unauthorized("email not confirmed")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Save(&user).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	token, err := utils.GenerateJWT(user.ID, user.Role, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	// Session rows are audit records only; the token itself stays stateless.
	session := &models.Session{
		UserID:    user.ID,
		IPAddress: loginCtx.IPAddress,
		UserAgent: loginCtx.UserAgent,
		ExpiresAt: now.Add(time.Duration(s.cfg.JWT.AccessTokenTTL) * time.Hour),
	}
	if err := s.db.Create(session).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login session")
	}

	return &AuthResponse{
		User:      &user,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *AuthService) VerifyEmail(token string) error {
	if token == "" {
		return apperrors.InvalidRequest("verification token is required")
	}

	var user models.User
	if err := s.db.Where("confirmation_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.InvalidRequest("invalid verification token")
		}
		return apperrors.Internal(err)
	}

	if user.EmailConfirmed() {
		return apperrors.InvalidRequest("email already verified")
	}

	now := time.Now()
	user.EmailConfirmedAt = &now
	user.ConfirmationToken = ""

	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to verify email: %w", err))
	}

	return nil
}

func (s *AuthService) RequestPasswordReset(req *RequestResetRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Internal(err)
	}

	resetToken, err := utils.GenerateVerificationToken()
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to generate reset token: %w", err))
	}

	expires := time.Now().Add(1 * time.Hour)
	user.ResetToken = resetToken
	user.ResetTokenExpires = &expires

	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to save reset token: %w", err))
	}

	if err := s.notification.SendPasswordResetEmail(&user, resetToken); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("Failed to send password reset email")
	}

	return nil
}

func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	var user models.User
	if err := s.db.Where("reset_token = ? AND reset_token <> ''", req.Token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.InvalidRequest("invalid or expired reset token")
		}
		return apperrors.Internal(err)
	}

	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return apperrors.InvalidRequest("invalid or expired reset token")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user.ResetToken = ""
	user.ResetTokenExpires = nil

	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to update password: %w", err))
	}

	return nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}
