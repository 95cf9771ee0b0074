// internal/domain/sale/entity_test.go
package sale

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotalMatchesStoredTotal(t *testing.T) {
	s := Sale{
		Total: decimal.RequireFromString("449.40"),
		Lines: []SaleLine{
			{Quantity: 2, UnitPrice: decimal.RequireFromString("89.90"), Subtotal: decimal.RequireFromString("179.80")},
			{Quantity: 1, UnitPrice: decimal.RequireFromString("269.60"), Subtotal: decimal.RequireFromString("269.60")},
		},
	}

	assert.True(t, s.Total.Equal(s.LineTotal()))
}

func TestIsValidChannel(t *testing.T) {
	for _, ch := range []EntryChannel{ChannelWeb, ChannelMobile, ChannelPhone, ChannelCounter} {
		assert.True(t, IsValidChannel(ch), string(ch))
	}
	assert.False(t, IsValidChannel("fax"))
	assert.False(t, IsValidChannel(""))
}
