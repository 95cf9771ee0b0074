// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CheckoutHandler handles order placement endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	customerService *customer.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	customerService := customer.NewService(db, cfg)
	return &CheckoutHandler{
		checkoutService: checkout.NewService(
			db,
			cfg,
			inventory.NewLedger(db),
			cart.NewService(db, cfg),
			customerService,
			logger,
		),
		customerService: customerService,
		config:          cfg,
	}
}

// Checkout handles POST /checkout, converting the caller's active cart
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	profile, err := h.customerService.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Channel sale.EntryChannel `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.Channel == "" {
		req.Channel = sale.ChannelWeb
	}

	committed, err := h.checkoutService.PlaceOrderFromCart(profile.ID, req.Channel)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    committed,
	})
}

// PlaceOrderRequest is the admin direct-order payload
type placeOrderRequest struct {
	CustomerID *uint                `json:"customer_id,omitempty"`
	Channel    sale.EntryChannel    `json:"channel" binding:"required"`
	Lines      []checkout.OrderLine `json:"lines" binding:"required,dive"`
}

// PlaceOrder handles POST /admin/orders for counter and phone sales
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	committed, err := h.checkoutService.PlaceOrder(req.CustomerID, req.Channel, req.Lines)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    committed,
	})
}
