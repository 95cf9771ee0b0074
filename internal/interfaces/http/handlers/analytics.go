// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsHandler handles reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, redisClient, cfg, logger),
		config:           cfg,
	}
}

// dateRange reads from/to query parameters, defaulting to the last 30 days
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, true
}

// GetRevenueSummary handles GET /admin/analytics/summary
func (h *AnalyticsHandler) GetRevenueSummary(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.GetRevenueSummary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue summary retrieved successfully",
		"data":    summary,
	})
}

// GetTopProducts handles GET /admin/analytics/top-products
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", 10)
	rows, err := h.analyticsService.GetTopProducts(from, to, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Top products retrieved successfully",
		"data":    rows,
	})
}

// GetSalesByCategory handles GET /admin/analytics/categories
func (h *AnalyticsHandler) GetSalesByCategory(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.GetSalesByCategory(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category sales retrieved successfully",
		"data":    rows,
	})
}

// GetDailyRevenue handles GET /admin/analytics/daily
func (h *AnalyticsHandler) GetDailyRevenue(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.GetDailyRevenue(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Daily revenue retrieved successfully",
		"data":    rows,
	})
}
