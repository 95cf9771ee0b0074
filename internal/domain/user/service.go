// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password. The two
	// cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an address that already has
	// an account
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRecoveryToken is returned for unknown or expired reset tokens
	ErrInvalidRecoveryToken = errors.New("invalid or expired recovery token")
)

// AccountLockedError reports a login rejected because of too many failed
// attempts. Until tells the caller when the block lifts.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

// IsAccountLocked reports whether err is an AccountLockedError
func IsAccountLocked(err error) bool {
	var target *AccountLockedError
	return errors.As(err, &target)
}

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	emailService    *email.EmailService
	customers       *customer.Service
	logger          *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, customers *customer.Service, emailService *email.EmailService, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		emailService:    emailService,
		customers:       customers,
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RequestMeta carries client details recorded in the audit trail
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new user account and its customer profile in one
// transaction. The profile call is explicit so the coupling is visible here
// rather than hidden in a persistence hook.
func (s *Service) Register(req *RegisterRequest, meta RequestMeta) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	var existing User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      RoleCustomer,
		IsActive:  true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := s.customers.EnsureProfile(tx, u.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(&u.ID, u.Email, AuditRegister, "account created", meta)

	return s.issueTokens(&u)
}

// Login authenticates a user. Three consecutive failures lock the account for
// the configured lockout window; a successful login resets the counter.
func (s *Service) Login(req *LoginRequest, meta RequestMeta) (*AuthResponse, error) {
	var u User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			s.recordAudit(nil, req.Email, AuditLoginFailed, "unknown email", meta)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", result.Error)
	}

	now := time.Now().UTC()
	if u.IsLocked(now) {
		s.recordAudit(&u.ID, u.Email, AuditLoginFailed, "account locked", meta)
		return nil, &AccountLockedError{Until: *u.LockedUntil}
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, s.registerFailedAttempt(&u, meta)
	}

	updates := map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}
	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update login state: %w", err)
	}
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now

	s.recordAudit(&u.ID, u.Email, AuditLoginSuccess, "", meta)

	return s.issueTokens(&u)
}

// registerFailedAttempt bumps the failure counter and locks the account when
// the configured threshold is reached. Always returns an error for the caller
// to surface.
func (s *Service) registerFailedAttempt(u *User, meta RequestMeta) error {
	attempts := u.FailedLoginAttempts + 1
	updates := map[string]interface{}{
		"failed_login_attempts": attempts,
	}

	var lockedUntil *time.Time
	if attempts >= s.config.Security.MaxLoginAttempts {
		until := time.Now().UTC().Add(s.config.Security.LockoutDuration)
		lockedUntil = &until
		updates["locked_until"] = until
		updates["failed_login_attempts"] = 0
	}

	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update login state: %w", err)
	}

	if lockedUntil != nil {
		s.recordAudit(&u.ID, u.Email, AuditAccountLocked,
			fmt.Sprintf("locked after %d failed attempts", attempts), meta)
		s.logger.WithFields(logrus.Fields{
			"user_id": u.ID,
			"until":   lockedUntil,
		}).Warn("Account locked after repeated failed logins")
		return &AccountLockedError{Until: *lockedUntil}
	}

	s.recordAudit(&u.ID, u.Email, AuditLoginFailed,
		fmt.Sprintf("attempt %d of %d", attempts, s.config.Security.MaxLoginAttempts), meta)
	return ErrInvalidCredentials
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var u User
	if err := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&u).Error; err != nil {
		return nil, ErrUserNotFound
	}

	return s.issueTokens(&u)
}

// ForgotPassword issues a recovery token and emails it to the account owner.
// The response is the same whether or not the email exists, so the endpoint
// cannot be used to probe for accounts.
func (s *Service) ForgotPassword(ctx context.Context, userEmail string, meta RequestMeta) error {
	var u User
	if err := s.db.Where("email = ? AND is_active = ?", userEmail, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token := s.passwordManager.GenerateRecoveryToken()
	expiry := time.Now().UTC().Add(s.config.Security.RecoveryTokenExpiry)
	updates := map[string]interface{}{
		"recovery_token":        token,
		"recovery_token_expiry": expiry,
	}
	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to store recovery token: %w", err)
	}

	s.recordAudit(&u.ID, u.Email, AuditPasswordRecovery, "recovery token issued", meta)

	if err := s.emailService.SendPasswordRecoveryEmail(ctx, u.Email, u.GetFullName(), token); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Error("Failed to send recovery email")
	}
	return nil
}

// ResetPassword sets a new password for the account holding a valid recovery
// token and consumes the token
func (s *Service) ResetPassword(token, newPassword string, meta RequestMeta) error {
	var u User
	err := s.db.Where("recovery_token = ? AND recovery_token_expiry > ?", token, time.Now().UTC()).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRecoveryToken
		}
		return fmt.Errorf("failed to look up recovery token: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"password":              hashedPassword,
		"recovery_token":        "",
		"recovery_token_expiry": nil,
		"failed_login_attempts": 0,
		"locked_until":          nil,
	}
	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.recordAudit(&u.ID, u.Email, AuditPasswordReset, "", meta)
	return nil
}

// ChangePassword updates the password of an authenticated user
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string, meta RequestMeta) error {
	u, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, u.Password); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.db.Model(u).UpdateColumn("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.recordAudit(&u.ID, u.Email, AuditPasswordChange, "", meta)
	return nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// ProfileUpdate is the allow-listed set of mutable account fields
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateProfile applies an allow-listed field update to a user account
func (s *Service) UpdateProfile(userID uint, update *ProfileUpdate) (*User, error) {
	u, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}

	if err := s.db.Save(u).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// GetAuditTrail lists audit entries, newest first, optionally scoped to a user
func (s *Service) GetAuditTrail(userID *uint, limit int) ([]AuditEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	query := s.db.Model(&AuditEntry{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var entries []AuditEntry
	if err := query.Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve audit trail: %w", err)
	}
	return entries, nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	u.Password = ""
	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// recordAudit appends a row to the audit trail. Audit failures are logged and
// swallowed so they never break the main flow.
func (s *Service) recordAudit(userID *uint, userEmail, action, detail string, meta RequestMeta) {
	entry := AuditEntry{
		UserID:    userID,
		Email:     userEmail,
		Action:    action,
		Detail:    detail,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.WithError(err).WithField("action", action).Error("Failed to record audit entry")
	}
}
