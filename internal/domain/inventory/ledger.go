// internal/domain/inventory/ledger.go
package inventory

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger guards product stock. Every stock-affecting operation takes an
// exclusive row lock on the product inside the caller's transaction, so
// concurrent reservations for the same product serialize and stock can
// never go negative.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a new inventory ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Reserve decrements stock for a product inside tx and returns the new stock
// value. The product row stays locked until tx commits or rolls back. On
// insufficient stock no mutation happens and *InsufficientStockError is
// returned; the enclosing transaction must be rolled back by the caller.
func (l *Ledger) Reserve(tx *gorm.DB, productID uint, quantity int, refType string, refID uint) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	var prod product.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, product.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	if prod.Stock < quantity {
		return 0, &InsufficientStockError{
			ProductID: productID,
			Available: prod.Stock,
			Requested: quantity,
		}
	}

	previous := prod.Stock
	newStock := previous - quantity

	if err := tx.Model(&product.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", newStock).Error; err != nil {
		return 0, fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)
	}

	movement := StockMovement{
		ProductID:     productID,
		MovementType:  MovementTypeSale,
		Quantity:      quantity,
		PreviousStock: previous,
		NewStock:      newStock,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return 0, fmt.Errorf("failed to record stock movement: %w", err)
	}

	return newStock, nil
}

// Restock increments stock for a product inside tx and returns the new stock
// value. Used by admin restock and order cancellation.
func (l *Ledger) Restock(tx *gorm.DB, productID uint, quantity int, refType string, refID uint) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	var prod product.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, product.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	previous := prod.Stock
	newStock := previous + quantity

	if err := tx.Model(&product.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", newStock).Error; err != nil {
		return 0, fmt.Errorf("failed to increment stock for product %d: %w", productID, err)
	}

	movement := StockMovement{
		ProductID:     productID,
		MovementType:  MovementTypeRestock,
		Quantity:      quantity,
		PreviousStock: previous,
		NewStock:      newStock,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return 0, fmt.Errorf("failed to record stock movement: %w", err)
	}

	return newStock, nil
}

// GetStockLevel reads the current stock of a product without locking
func (l *Ledger) GetStockLevel(productID uint) (int, error) {
	var prod product.Product
	if err := l.db.Select("stock").First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, product.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to read stock for product %d: %w", productID, err)
	}
	return prod.Stock, nil
}

// GetMovements lists the movement history for a product, newest first
func (l *Ledger) GetMovements(productID uint, limit int) ([]StockMovement, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var movements []StockMovement
	err := l.db.Where("product_id = ?", productID).
		Order("id DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}
