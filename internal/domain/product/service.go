// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when the requested product does not exist
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound is returned when the requested category does not exist
var ErrCategoryNotFound = errors.New("category not found")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	SalePrice     decimal.Decimal `json:"sale_price" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	ImageURL      string          `json:"image_url"`
	Stock         int             `json:"stock" binding:"min=0"`
	WarrantyYears int             `json:"warranty_years"`
	CategoryID    uint            `json:"category_id" binding:"required"`
}

// ProductUpdate is the allow-listed set of mutable product fields.
// Nil pointers leave the stored value untouched.
type ProductUpdate struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	UnitOfMeasure *string          `json:"unit_of_measure,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	WarrantyYears *int             `json:"warranty_years,omitempty"`
	CategoryID    *uint            `json:"category_id,omitempty"`
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only,default=true"`
}

// ProductListResponse represents a paginated product list
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// CreateProduct creates a new catalog product
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	if req.SalePrice.IsNegative() {
		return nil, fmt.Errorf("sale price cannot be negative")
	}

	var category Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	var existing Product
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("product with code '%s' already exists", req.Code)
	}

	prod := &Product{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		SalePrice:     req.SalePrice,
		PurchasePrice: req.PurchasePrice,
		UnitOfMeasure: req.UnitOfMeasure,
		ImageURL:      req.ImageURL,
		IsActive:      true,
		Stock:         req.Stock,
		WarrantyYears: req.WarrantyYears,
		CategoryID:    req.CategoryID,
	}

	if err := s.db.Create(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return prod, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	if err := s.db.Preload("Category").First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// GetProductByCode retrieves a single product by its catalog code
func (s *Service) GetProductByCode(code string) (*Product, error) {
	var prod Product
	if err := s.db.Preload("Category").Where("code = ?", code).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Category")

	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("id").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ProductListResponse{
		Products: products,
		Total:    total,
		Page:     req.Page,
		Limit:    req.Limit,
	}, nil
}

// UpdateProduct applies an allow-listed field update to a product
func (s *Service) UpdateProduct(id uint, update *ProductUpdate) (*Product, error) {
	prod, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		prod.Name = *update.Name
	}
	if update.Description != nil {
		prod.Description = *update.Description
	}
	if update.SalePrice != nil {
		if update.SalePrice.IsNegative() {
			return nil, fmt.Errorf("sale price cannot be negative")
		}
		prod.SalePrice = *update.SalePrice
	}
	if update.PurchasePrice != nil {
		prod.PurchasePrice = *update.PurchasePrice
	}
	if update.UnitOfMeasure != nil {
		prod.UnitOfMeasure = *update.UnitOfMeasure
	}
	if update.ImageURL != nil {
		prod.ImageURL = *update.ImageURL
	}
	if update.IsActive != nil {
		prod.IsActive = *update.IsActive
	}
	if update.WarrantyYears != nil {
		prod.WarrantyYears = *update.WarrantyYears
	}
	if update.CategoryID != nil {
		var category Category
		if err := s.db.First(&category, *update.CategoryID).Error; err != nil {
			return nil, ErrCategoryNotFound
		}
		prod.CategoryID = *update.CategoryID
	}

	if err := s.db.Save(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return prod, nil
}

// DeleteProduct soft-deletes a product. Products referenced by sale history
// keep their rows; the catalog only hides them.
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetLowStockProducts lists active products at or below the given threshold
func (s *Service) GetLowStockProducts(threshold int) ([]Product, error) {
	var products []Product
	err := s.db.Where("is_active = ? AND stock <= ?", true, threshold).
		Order("stock").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock products: %w", err)
	}
	return products, nil
}

// CATEGORY MANAGEMENT

// CreateCategoryRequest represents category creation data
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryUpdate is the allow-listed set of mutable category fields
type CategoryUpdate struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req *CreateCategoryRequest) (*Category, error) {
	category := &Category{
		Name:     req.Name,
		IsActive: true,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// GetCategories retrieves all active categories
func (s *Service) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory applies an allow-listed field update to a category
func (s *Service) UpdateCategory(id uint, update *CategoryUpdate) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.IsActive != nil {
		category.IsActive = *update.IsActive
	}

	if err := s.db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}
