// internal/domain/inventory/errors_test.go
package inventory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductID: 7, Available: 2, Requested: 5}

	assert.Equal(t, "insufficient stock for product 7: available 2, requested 5", err.Error())
}

func TestIsInsufficientStock(t *testing.T) {
	stockErr := &InsufficientStockError{ProductID: 1, Available: 0, Requested: 1}

	assert.True(t, IsInsufficientStock(stockErr))
	assert.True(t, IsInsufficientStock(fmt.Errorf("reserve failed: %w", stockErr)))
	assert.False(t, IsInsufficientStock(ErrInvalidQuantity))
	assert.False(t, IsInsufficientStock(nil))
}

func TestInsufficientStockErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", &InsufficientStockError{ProductID: 3, Available: 1, Requested: 4})

	var target *InsufficientStockError
	if assert.True(t, errors.As(wrapped, &target)) {
		assert.Equal(t, uint(3), target.ProductID)
		assert.Equal(t, 1, target.Available)
		assert.Equal(t, 4, target.Requested)
	}
}
