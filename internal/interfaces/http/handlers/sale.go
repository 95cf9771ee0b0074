// internal/interfaces/http/handlers/sale.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SaleHandler handles sale read endpoints
type SaleHandler struct {
	saleService     *sale.Service
	customerService *customer.Service
	pdfService      *pdf.Service
	config          *config.Config
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(db *gorm.DB, cfg *config.Config) *SaleHandler {
	return &SaleHandler{
		saleService:     sale.NewService(db, cfg),
		customerService: customer.NewService(db, cfg),
		pdfService:      pdf.NewService(cfg),
		config:          cfg,
	}
}

// GetMySales handles GET /sales, the caller's purchase history
func (h *SaleHandler) GetMySales(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	profile, err := h.customerService.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)

	resp, err := h.saleService.ListByCustomer(profile.ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales retrieved successfully",
		"data":    resp,
	})
}

// GetMySale handles GET /sales/:id
func (h *SaleHandler) GetMySale(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	profile, err := h.customerService.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	saleID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	committed, err := h.saleService.GetCustomerSale(profile.ID, saleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale retrieved successfully",
		"data":    committed,
	})
}

// GetReceipt handles GET /sales/:id/receipt, streaming a PDF receipt
func (h *SaleHandler) GetReceipt(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	profile, err := h.customerService.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	saleID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	committed, err := h.saleService.GetCustomerSale(profile.ID, saleID)
	if err != nil {
		respondError(c, err)
		return
	}

	customerName, _ := middleware.GetUserEmailFromContext(c)
	buf, err := h.pdfService.GenerateReceipt(committed, customerName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%06d.pdf", committed.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ListSales handles GET /admin/sales with date and channel filters
func (h *SaleHandler) ListSales(c *gin.Context) {
	var req sale.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.saleService.List(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales retrieved successfully",
		"data":    resp,
	})
}

// GetSale handles GET /admin/sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	saleID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	committed, err := h.saleService.GetSale(saleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale retrieved successfully",
		"data":    committed,
	})
}
