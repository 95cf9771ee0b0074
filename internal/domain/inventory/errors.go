// internal/domain/inventory/errors.go
package inventory

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned for zero or negative requested quantities
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// InsufficientStockError reports a reservation that exceeds available stock.
// Available carries the stock observed under the row lock, so the caller can
// tell the user exactly how many units remain.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// IsInsufficientStock reports whether err is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
