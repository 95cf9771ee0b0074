// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// InventoryHandler handles stock management endpoints
type InventoryHandler struct {
	db     *gorm.DB
	ledger *inventory.Ledger
	config *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(db *gorm.DB, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		db:     db,
		ledger: inventory.NewLedger(db),
		config: cfg,
	}
}

// Restock handles POST /admin/inventory/:id/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var newStock int
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var err error
		newStock, err = h.ledger.Restock(tx, productID, req.Quantity, "restock", 0)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock replenished successfully",
		"data": gin.H{
			"product_id": productID,
			"stock":      newStock,
		},
	})
}

// GetStockLevel handles GET /admin/inventory/:id
func (h *InventoryHandler) GetStockLevel(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	stock, err := h.ledger.GetStockLevel(productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock level retrieved successfully",
		"data": gin.H{
			"product_id": productID,
			"stock":      stock,
		},
	})
}

// GetMovements handles GET /admin/inventory/:id/movements
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	limit := parseIntQuery(c, "limit", 50)
	movements, err := h.ledger.GetMovements(productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}
