// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name          string          `gorm:"not null;size:150" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"sale_price"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"purchase_price"`
	UnitOfMeasure string          `gorm:"size:50" json:"unit_of_measure"`
	ImageURL      string          `gorm:"size:500" json:"image_url"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	Stock         int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	WarrantyYears int             `gorm:"default:0" json:"warranty_years"`
	CategoryID    uint            `gorm:"not null;index" json:"category_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// Category represents a product category
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:150" json:"name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// IsInStock reports whether any stock remains
func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// LineSubtotal returns quantity * sale price using fixed-point arithmetic
func (p *Product) LineSubtotal(quantity int) decimal.Decimal {
	return p.SalePrice.Mul(decimal.NewFromInt(int64(quantity)))
}
