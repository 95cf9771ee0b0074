// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// Status represents the cart lifecycle state
type Status string

const (
	StatusActive    Status = "active"
	StatusAbandoned Status = "abandoned"
	StatusConverted Status = "converted"
)

// Cart accumulates candidate purchase lines for one customer. A customer has
// at most one active cart; conversion is one-way.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Status     Status    `gorm:"not null;default:'active';size:20" json:"status"`
	Origin     string    `gorm:"size:50;default:'web'" json:"origin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
}

// CartLine is one product inside a cart. UnitPrice is snapshotted at
// add-time and never refreshed from the catalog.
type CartLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint            `gorm:"not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	AddedAt   time.Time       `gorm:"autoCreateTime" json:"added_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartLine) TableName() string { return "cart_lines" }

// IsActive reports whether the cart can still be mutated
func (c *Cart) IsActive() bool {
	return c.Status == StatusActive
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums the line subtotals using fixed-point arithmetic
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal)
	}
	return total
}
