// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeSale    MovementType = "sale"
	MovementTypeRestock MovementType = "restock"
)

// StockMovement is the audit trail of every stock change. Rows are written
// inside the same transaction that mutates the product row.
type StockMovement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ProductID     uint         `gorm:"not null;index" json:"product_id"`
	MovementType  MovementType `gorm:"not null;size:20" json:"movement_type"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	PreviousStock int          `gorm:"not null" json:"previous_stock"`
	NewStock      int          `gorm:"not null" json:"new_stock"`
	ReferenceType string       `gorm:"size:50" json:"reference_type"`
	ReferenceID   uint         `json:"reference_id"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName overrides the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}
