// internal/domain/product/entity_test.go
package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineSubtotal(t *testing.T) {
	p := Product{SalePrice: decimal.RequireFromString("19.99")}

	assert.True(t, decimal.RequireFromString("59.97").Equal(p.LineSubtotal(3)))
	assert.True(t, decimal.RequireFromString("19.99").Equal(p.LineSubtotal(1)))
	assert.True(t, decimal.Zero.Equal(p.LineSubtotal(0)))
}

func TestLineSubtotalKeepsPrecision(t *testing.T) {
	// 0.10 * 3 must be exactly 0.30, not 0.30000000000000004
	p := Product{SalePrice: decimal.RequireFromString("0.10")}

	assert.Equal(t, "0.30", p.LineSubtotal(3).StringFixed(2))
}

func TestIsInStock(t *testing.T) {
	assert.True(t, (&Product{Stock: 1}).IsInStock())
	assert.False(t, (&Product{Stock: 0}).IsInStock())
}
