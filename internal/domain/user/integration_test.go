// internal/domain/user/integration_test.go
package user

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}, &AuditEntry{}, &customer.Customer{}))
	return db
}

func newTestService(db *gorm.DB) *Service {
	cfg := &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-123",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:          4,
			MaxLoginAttempts:    3,
			LockoutDuration:     30 * time.Minute,
			RecoveryTokenExpiry: time.Hour,
		},
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewService(db, cfg, customer.NewService(db, cfg), email.NewEmailService(cfg, l), l)
}

func registerTestUser(t *testing.T, svc *Service) (*AuthResponse, string) {
	t.Helper()

	addr := fmt.Sprintf("%s@example.com", uuid.New().String()[:8])
	resp, err := svc.Register(&RegisterRequest{
		Email:           addr,
		Password:        "Sup3rSecret",
		ConfirmPassword: "Sup3rSecret",
		FirstName:       "Ana",
		LastName:        "Flores",
	}, RequestMeta{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return resp, addr
}

func TestRegisterCreatesCustomerProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	resp, _ := registerTestUser(t, svc)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	var profile customer.Customer
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&profile).Error)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	_, addr := registerTestUser(t, svc)

	_, err := svc.Register(&RegisterRequest{
		Email:           addr,
		Password:        "Sup3rSecret",
		ConfirmPassword: "Sup3rSecret",
		FirstName:       "Ana",
		LastName:        "Flores",
	}, RequestMeta{})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	_, addr := registerTestUser(t, svc)
	meta := RequestMeta{IPAddress: "127.0.0.1"}

	for i := 0; i < 2; i++ {
		_, err := svc.Login(&LoginRequest{Email: addr, Password: "WrongPass1"}, meta)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Third failure locks the account
	_, err := svc.Login(&LoginRequest{Email: addr, Password: "WrongPass1"}, meta)
	require.Error(t, err)
	assert.True(t, IsAccountLocked(err))

	// The right password is rejected while the block holds
	_, err = svc.Login(&LoginRequest{Email: addr, Password: "Sup3rSecret"}, meta)
	assert.True(t, IsAccountLocked(err))

	// The lockout is recorded in the audit trail
	var count int64
	require.NoError(t, db.Model(&AuditEntry{}).
		Where("email = ? AND action = ?", addr, AuditAccountLocked).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginSuccessResetsFailureCounter(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	_, addr := registerTestUser(t, svc)
	meta := RequestMeta{}

	_, err := svc.Login(&LoginRequest{Email: addr, Password: "WrongPass1"}, meta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(&LoginRequest{Email: addr, Password: "Sup3rSecret"}, meta)
	require.NoError(t, err)
	assert.Zero(t, resp.User.FailedLoginAttempts)

	var u User
	require.NoError(t, db.Where("email = ?", addr).First(&u).Error)
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	_, addr := registerTestUser(t, svc)
	meta := RequestMeta{}

	require.NoError(t, svc.ForgotPassword(context.Background(), addr, meta))

	var u User
	require.NoError(t, db.Where("email = ?", addr).First(&u).Error)
	require.NotEmpty(t, u.RecoveryToken)

	require.NoError(t, svc.ResetPassword(u.RecoveryToken, "N3wPassword", meta))

	// The token is single use
	assert.ErrorIs(t, svc.ResetPassword(u.RecoveryToken, "An0therPass", meta), ErrInvalidRecoveryToken)

	_, err := svc.Login(&LoginRequest{Email: addr, Password: "N3wPassword"}, meta)
	assert.NoError(t, err)
}
