// internal/domain/payment/integration_test.go
package payment

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/sale"
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

	require.NoError(t, db.AutoMigrate(&sale.Sale{}, &sale.SaleLine{}, &Payment{}))
	return db
}

func newTestService(db *gorm.DB) *Service {
	cfg := &config.Config{}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewService(db, cfg, sale.NewService(db, cfg), l)
}

func createTestSale(t *testing.T, db *gorm.DB, total string) *sale.Sale {
	t.Helper()

	s := sale.Sale{
		SaleDate:     time.Now(),
		EntryChannel: sale.ChannelWeb,
		SaleType:     "cash",
		Total:        decimal.RequireFromString(total),
	}
	require.NoError(t, db.Create(&s).Error)
	return &s
}

func TestInitiateCopiesSaleTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	s := createTestSale(t, db, "120.00")

	p, err := svc.Initiate(&InitiateRequest{SaleID: s.ID, Method: MethodStripe})
	require.NoError(t, err)

	assert.Equal(t, "120.00", p.Amount.StringFixed(2))
	assert.Equal(t, StatusPending, p.Status)
	assert.NotEmpty(t, p.Reference)

	// Repeating the request reuses the open payment
	again, err := svc.Initiate(&InitiateRequest{SaleID: s.ID, Method: MethodStripe})
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestMarkSettledIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	s := createTestSale(t, db, "80.00")
	p, err := svc.Initiate(&InitiateRequest{SaleID: s.ID, Method: MethodStripe})
	require.NoError(t, err)

	settled, err := svc.MarkSettled(p.ID, StatusApproved, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, settled.Status)
	require.NotNil(t, settled.SettledAt)

	// Same outcome again is a no-op
	repeat, err := svc.MarkSettled(p.ID, StatusApproved, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, repeat.Status)

	// A conflicting outcome fails and changes nothing
	_, err = svc.MarkSettled(p.ID, StatusRejected, "")
	assert.ErrorIs(t, err, ErrPaymentSettled)

	reloaded, err := svc.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, reloaded.Status)
}

func TestMarkSettledValidatesOutcome(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	s := createTestSale(t, db, "10.00")
	p, err := svc.Initiate(&InitiateRequest{SaleID: s.ID, Method: MethodCash})
	require.NoError(t, err)

	_, err = svc.MarkSettled(p.ID, StatusRefunded, "")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestConfirmCashRequiresCashMethod(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	s := createTestSale(t, db, "45.00")
	card, err := svc.Initiate(&InitiateRequest{SaleID: s.ID, Method: MethodStripe})
	require.NoError(t, err)

	_, err = svc.ConfirmCash(card.ID)
	assert.ErrorIs(t, err, ErrInvalidMethod)

	cash, err := svc.Initiate(&InitiateRequest{SaleID: s.ID, Method: MethodCash})
	require.NoError(t, err)

	confirmed, err := svc.ConfirmCash(cash.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, confirmed.Status)
}
