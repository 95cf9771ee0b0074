// internal/domain/sale/entity.go
package sale

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// EntryChannel records where a sale originated
type EntryChannel string

const (
	ChannelWeb     EntryChannel = "web"
	ChannelMobile  EntryChannel = "mobile"
	ChannelPhone   EntryChannel = "phone"
	ChannelCounter EntryChannel = "counter"
)

// Sale is the committed record of a completed purchase. Sales and their lines
// are immutable once written; corrections happen through compensating entries,
// never by editing history.
type Sale struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CustomerID   *uint           `gorm:"index" json:"customer_id"`
	SaleDate     time.Time       `gorm:"not null;index" json:"sale_date"`
	EntryChannel EntryChannel    `gorm:"not null;size:20;default:'web'" json:"entry_channel"`
	SaleType     string          `gorm:"not null;size:20;default:'cash'" json:"sale_type"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedAt    time.Time       `json:"created_at"`

	// Relationships
	Customer *customer.Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`
	Lines    []SaleLine         `gorm:"foreignKey:SaleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
}

// SaleLine is one product position within a sale. UnitPrice and Subtotal are
// frozen at commit time so later catalog price changes never rewrite history.
type SaleLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`
}

// TableName overrides
func (Sale) TableName() string     { return "sales" }
func (SaleLine) TableName() string { return "sale_lines" }

// LineTotal recomputes the sum of line subtotals, used to cross-check the
// stored total in tests and audits
func (s *Sale) LineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// IsValidChannel reports whether ch names a known entry channel
func IsValidChannel(ch EntryChannel) bool {
	switch ch {
	case ChannelWeb, ChannelMobile, ChannelPhone, ChannelCounter:
		return true
	}
	return false
}
