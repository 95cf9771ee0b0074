// internal/domain/cart/integration_test.go
package cart

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/product"
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

	require.NoError(t, db.AutoMigrate(
		&customer.Customer{},
		&product.Category{},
		&product.Product{},
		&Cart{},
		&CartLine{},
	))
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, price string, stock int) *product.Product {
	t.Helper()

	p := product.Product{
		Code:      fmt.Sprintf("TST-%s", uuid.New().String()[:13]),
		Name:      "Test Product",
		SalePrice: decimal.RequireFromString(price),
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func createTestCustomer(t *testing.T, db *gorm.DB) *customer.Customer {
	t.Helper()

	c := customer.Customer{UserID: uint(time.Now().UnixNano() % 1_000_000_000)}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestAddLineMergesQuantities(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	p := createTestProduct(t, db, "15.00", 10)
	cust := createTestCustomer(t, db)

	_, err := svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, "75.00", c.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "75.00", c.Total().StringFixed(2))
}

func TestAddLineRejectsExceedingStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	p := createTestProduct(t, db, "10.00", 4)
	cust := createTestCustomer(t, db)

	_, err := svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	// 3 already in the cart, 2 more would exceed the 4 in stock
	_, err = svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 2})
	require.Error(t, err)
	assert.True(t, inventory.IsInsufficientStock(err))
}

func TestUpdateLineQuantityZeroRemovesLine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	p := createTestProduct(t, db, "10.00", 10)
	cust := createTestCustomer(t, db)

	c, err := svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	c, err = svc.UpdateLineQuantity(cust.ID, c.Lines[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestRemoveLineUnknownID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	cust := createTestCustomer(t, db)
	_, err := svc.GetOrCreateActive(cust.ID)
	require.NoError(t, err)

	_, err = svc.RemoveLine(cust.ID, 999999)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestClearKeepsCartActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	p := createTestProduct(t, db, "10.00", 10)
	cust := createTestCustomer(t, db)

	before, err := svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	after, err := svc.Clear(cust.ID)
	require.NoError(t, err)

	assert.Equal(t, before.ID, after.ID)
	assert.Empty(t, after.Lines)
	assert.Equal(t, StatusActive, after.Status)
}

func TestConvertIsOneWay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	p := createTestProduct(t, db, "10.00", 10)
	cust := createTestCustomer(t, db)

	c, err := svc.AddLine(cust.ID, &AddLineRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Convert(db, c.ID))
	assert.ErrorIs(t, svc.Convert(db, c.ID), ErrCartNotActive)

	// The next cart request starts a fresh active cart
	fresh, err := svc.GetOrCreateActive(cust.ID)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, fresh.ID)
	assert.Equal(t, StatusActive, fresh.Status)
}
