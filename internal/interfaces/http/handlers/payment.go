// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"gorm.io/gorm"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *payment.Service
	config         *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: payment.NewService(db, cfg, sale.NewService(db, cfg), logger),
		config:         cfg,
	}
}

// Initiate handles POST /payments
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req payment.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.paymentService.Initiate(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment initiated successfully",
		"data":    p,
	})
}

// settleRequest is the settlement payload reported by a gateway callback or
// the back office
type settleRequest struct {
	Outcome    payment.Status `json:"outcome" binding:"required"`
	GatewayRef string         `json:"gateway_ref,omitempty"`
}

// Settle handles POST /payments/:id/settle
func (h *PaymentHandler) Settle(c *gin.Context) {
	paymentID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.paymentService.MarkSettled(paymentID, req.Outcome, req.GatewayRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment settled successfully",
		"data":    p,
	})
}

// ConfirmCash handles POST /admin/payments/:id/confirm-cash
func (h *PaymentHandler) ConfirmCash(c *gin.Context) {
	paymentID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	p, err := h.paymentService.ConfirmCash(paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cash payment confirmed successfully",
		"data":    p,
	})
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	p, err := h.paymentService.GetPayment(paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment retrieved successfully",
		"data":    p,
	})
}

// ListBySale handles GET /admin/sales/:id/payments
func (h *PaymentHandler) ListBySale(c *gin.Context) {
	saleID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	payments, err := h.paymentService.ListBySale(saleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payments retrieved successfully",
		"data":    payments,
	})
}
