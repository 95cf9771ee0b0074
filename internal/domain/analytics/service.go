// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Service answers reporting queries over committed sales. All queries are
// read-only; nothing here ever mutates sale history.
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
		logger: logger,
	}
}

// RevenueSummary aggregates sales over a date range
type RevenueSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	SaleCount    int64           `json:"sale_count"`
	AverageSale  decimal.Decimal `json:"average_sale"`
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
}

// ProductSales is one row of a per-product ranking
type ProductSales struct {
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	CategoryName string          `json:"category_name"`
}

// DailyRevenue is one day of the revenue time series
type DailyRevenue struct {
	Day       time.Time       `json:"day"`
	Revenue   decimal.Decimal `json:"revenue"`
	SaleCount int64           `json:"sale_count"`
}

// CategorySales is one row of a per-category breakdown
type CategorySales struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

const summaryCacheTTL = time.Minute

// GetRevenueSummary returns revenue totals for the date range. Results are
// cached in Redis for a minute since the dashboard polls this endpoint.
func (s *Service) GetRevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	cacheKey := fmt.Sprintf("analytics:summary:%s:%s",
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var summary RevenueSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	var row struct {
		TotalRevenue decimal.Decimal
		SaleCount    int64
	}
	err := s.db.Table("sales").
		Select("COALESCE(SUM(total), 0) AS total_revenue, COUNT(*) AS sale_count").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	summary := &RevenueSummary{
		TotalRevenue: row.TotalRevenue,
		SaleCount:    row.SaleCount,
		AverageSale:  decimal.Zero,
		From:         from,
		To:           to,
	}
	if row.SaleCount > 0 {
		summary.AverageSale = row.TotalRevenue.
			Div(decimal.NewFromInt(row.SaleCount)).
			Round(2)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, summaryCacheTTL).Err(); err != nil {
				s.logger.WithError(err).Debug("Failed to cache revenue summary")
			}
		}
	}

	return summary, nil
}

// GetTopProducts ranks products by units sold over the date range
func (s *Service) GetTopProducts(from, to time.Time, limit int) ([]ProductSales, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var rows []ProductSales
	err := s.db.Table("sale_lines").
		Select(`sale_lines.product_id,
			products.name AS product_name,
			categories.name AS category_name,
			SUM(sale_lines.quantity) AS units_sold,
			SUM(sale_lines.subtotal) AS revenue`).
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Joins("JOIN products ON products.id = sale_lines.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("sales.sale_date >= ? AND sales.sale_date < ?", from, to).
		Group("sale_lines.product_id, products.name, categories.name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	return rows, nil
}

// GetSalesByCategory breaks revenue down per category over the date range
func (s *Service) GetSalesByCategory(from, to time.Time) ([]CategorySales, error) {
	var rows []CategorySales
	err := s.db.Table("sale_lines").
		Select(`products.category_id,
			categories.name AS category_name,
			SUM(sale_lines.quantity) AS units_sold,
			SUM(sale_lines.subtotal) AS revenue`).
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Joins("JOIN products ON products.id = sale_lines.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("sales.sale_date >= ? AND sales.sale_date < ?", from, to).
		Group("products.category_id, categories.name").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	return rows, nil
}

// GetDailyRevenue returns the per-day revenue series over the date range
func (s *Service) GetDailyRevenue(from, to time.Time) ([]DailyRevenue, error) {
	var rows []DailyRevenue
	err := s.db.Table("sales").
		Select(`DATE_TRUNC('day', sale_date) AS day,
			COALESCE(SUM(total), 0) AS revenue,
			COUNT(*) AS sale_count`).
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Group("DATE_TRUNC('day', sale_date)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue series: %w", err)
	}
	return rows, nil
}
