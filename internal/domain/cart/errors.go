// internal/domain/cart/errors.go
package cart

import "errors"

var (
	// ErrCartNotFound is returned when no cart matches the lookup
	ErrCartNotFound = errors.New("cart not found")

	// ErrLineNotFound is returned when a cart line does not exist or does not
	// belong to the caller's cart
	ErrLineNotFound = errors.New("cart line not found")

	// ErrEmptyCart is returned when checkout is attempted on a cart with no lines
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCartNotActive is returned when a mutation targets a cart that has
	// already been converted or abandoned
	ErrCartNotActive = errors.New("cart is no longer active")
)
