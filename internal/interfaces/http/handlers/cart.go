// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. All cart routes require authentication;
// the customer profile is resolved from the authenticated user.
type CartHandler struct {
	cartService     *cart.Service
	customerService *customer.Service
	config          *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:     cart.NewService(db, cfg),
		customerService: customer.NewService(db, cfg),
		config:          cfg,
	}
}

func (h *CartHandler) resolveCustomer(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return 0, false
	}
	profile, err := h.customerService.EnsureProfile(nil, userID)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return profile.ID, true
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	customerID, ok := h.resolveCustomer(c)
	if !ok {
		return
	}

	activeCart, err := h.cartService.GetOrCreateActive(customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartPayload(activeCart),
	})
}

// AddLine handles POST /cart/lines
func (h *CartHandler) AddLine(c *gin.Context) {
	customerID, ok := h.resolveCustomer(c)
	if !ok {
		return
	}

	var req cart.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	activeCart, err := h.cartService.AddLine(customerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartPayload(activeCart),
	})
}

// UpdateLine handles PUT /cart/lines/:id
func (h *CartHandler) UpdateLine(c *gin.Context) {
	customerID, ok := h.resolveCustomer(c)
	if !ok {
		return
	}

	lineID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line ID"})
		return
	}

	var req cart.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	activeCart, err := h.cartService.UpdateLineQuantity(customerID, lineID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart line updated successfully",
		"data":    cartPayload(activeCart),
	})
}

// RemoveLine handles DELETE /cart/lines/:id
func (h *CartHandler) RemoveLine(c *gin.Context) {
	customerID, ok := h.resolveCustomer(c)
	if !ok {
		return
	}

	lineID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line ID"})
		return
	}

	activeCart, err := h.cartService.RemoveLine(customerID, lineID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart line removed successfully",
		"data":    cartPayload(activeCart),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	customerID, ok := h.resolveCustomer(c)
	if !ok {
		return
	}

	activeCart, err := h.cartService.Clear(customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartPayload(activeCart),
	})
}

// cartPayload shapes the cart response with the computed total
func cartPayload(c *cart.Cart) gin.H {
	return gin.H{
		"cart":  c,
		"total": c.Total(),
		"count": len(c.Lines),
	}
}
