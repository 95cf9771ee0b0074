// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	c := Cart{
		Lines: []CartLine{
			{Subtotal: decimal.RequireFromString("10.50")},
			{Subtotal: decimal.RequireFromString("0.25")},
			{Subtotal: decimal.RequireFromString("99.99")},
		},
	}

	assert.Equal(t, "110.74", c.Total().StringFixed(2))
}

func TestCartTotalEmpty(t *testing.T) {
	c := Cart{}

	assert.True(t, c.IsEmpty())
	assert.True(t, decimal.Zero.Equal(c.Total()))
}

func TestCartIsActive(t *testing.T) {
	assert.True(t, (&Cart{Status: StatusActive}).IsActive())
	assert.False(t, (&Cart{Status: StatusConverted}).IsActive())
	assert.False(t, (&Cart{Status: StatusAbandoned}).IsActive())
}
