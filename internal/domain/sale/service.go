// internal/domain/sale/service.go
package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrSaleNotFound is returned when no sale matches the lookup
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInvalidChannel is returned for unknown entry channels
	ErrInvalidChannel = errors.New("invalid entry channel")
)

// Service is the read side over committed sales. Writes go through the
// checkout engine only.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new sale service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents sale listing parameters for the admin view
type ListRequest struct {
	Page       int          `form:"page"`
	Limit      int          `form:"limit"`
	CustomerID *uint        `form:"customer_id"`
	Channel    EntryChannel `form:"channel"`
	DateFrom   string       `form:"date_from"` // YYYY-MM-DD
	DateTo     string       `form:"date_to"`   // YYYY-MM-DD
}

// ListResponse represents a paginated sale listing
type ListResponse struct {
	Sales      []Sale `json:"sales"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// GetSale retrieves a sale with its lines and product details
func (s *Service) GetSale(id uint) (*Sale, error) {
	var sl Sale
	err := s.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sale_lines.id ASC")
	}).Preload("Lines.Product").
		First(&sl, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to retrieve sale: %w", err)
	}
	return &sl, nil
}

// GetCustomerSale retrieves a sale only if it belongs to the given customer.
// Used by the storefront so customers cannot read each other's purchases.
func (s *Service) GetCustomerSale(customerID, saleID uint) (*Sale, error) {
	var sl Sale
	err := s.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sale_lines.id ASC")
	}).Preload("Lines.Product").
		Where("id = ? AND customer_id = ?", saleID, customerID).
		First(&sl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to retrieve sale: %w", err)
	}
	return &sl, nil
}

// ListByCustomer returns the purchase history of one customer, newest first
func (s *Service) ListByCustomer(customerID uint, page, limit int) (*ListResponse, error) {
	page, limit = normalizePagination(page, limit)

	query := s.db.Model(&Sale{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	var sales []Sale
	err := query.Preload("Lines").Preload("Lines.Product").
		Order("sale_date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	return &ListResponse{
		Sales:      sales,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// List returns sales matching the given filters, for the admin back office
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	page, limit := normalizePagination(req.Page, req.Limit)

	query := s.db.Model(&Sale{})
	if req.CustomerID != nil {
		query = query.Where("customer_id = ?", *req.CustomerID)
	}
	if req.Channel != "" {
		if !IsValidChannel(req.Channel) {
			return nil, ErrInvalidChannel
		}
		query = query.Where("entry_channel = ?", req.Channel)
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid date_from: %w", err)
		}
		query = query.Where("sale_date >= ?", from)
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, fmt.Errorf("invalid date_to: %w", err)
		}
		query = query.Where("sale_date < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	var sales []Sale
	err := query.Preload("Lines").Preload("Customer").
		Order("sale_date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	return &ListResponse{
		Sales:      sales,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
