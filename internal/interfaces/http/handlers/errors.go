// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// respondError translates domain errors into HTTP responses. Typed errors get
// specific status codes and payloads; anything unrecognized becomes a 500
// with a generic message so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})
		return
	}

	var lockedErr *user.AccountLockedError
	if errors.As(err, &lockedErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "Account temporarily locked",
			"locked_until": lockedErr.Until,
		})
		return
	}

	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrCategoryNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, sale.ErrSaleNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrCartNotActive),
		errors.Is(err, checkout.ErrNoLines),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, sale.ErrInvalidChannel),
		errors.Is(err, payment.ErrInvalidMethod),
		errors.Is(err, payment.ErrInvalidOutcome):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, payment.ErrPaymentSettled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, user.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidRecoveryToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
