// internal/domain/checkout/service_test.go
package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLinesKeepsOrder(t *testing.T) {
	merged := mergeLines([]OrderLine{
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 4},
	})

	assert.Equal(t, []OrderLine{
		{ProductID: 3, Quantity: 5},
		{ProductID: 1, Quantity: 2},
	}, merged)
}

func TestMergeLinesNoDuplicates(t *testing.T) {
	lines := []OrderLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	}

	assert.Equal(t, lines, mergeLines(lines))
}

func TestMergeLinesEmpty(t *testing.T) {
	assert.Empty(t, mergeLines(nil))
}
