// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddLineRequest represents a request to add a product to the cart
type AddLineRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Origin    string `json:"origin,omitempty"`
}

// UpdateLineRequest represents a quantity change for an existing line
type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetOrCreateActive returns the customer's active cart, creating one when
// none exists. A partial unique index on (customer_id) WHERE status='active'
// backs the one-active-cart invariant at the database level.
func (s *Service) GetOrCreateActive(customerID uint) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_lines.id ASC")
	}).Preload("Lines.Product").
		Where("customer_id = ? AND status = ?", customerID, StatusActive).
		First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	c = Cart{
		CustomerID: customerID,
		Status:     StatusActive,
		Origin:     "web",
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &c, nil
}

// AddLine adds a product to the customer's active cart. Adding a product that
// is already in the cart merges by summing quantities; the unit price
// snapshotted at first add is kept. Availability is checked against current
// stock including what the cart already holds, as an advisory guard; the
// authoritative check happens under a row lock at checkout.
func (s *Service) AddLine(customerID uint, req *AddLineRequest) (*Cart, error) {
	if req.Quantity < 1 {
		return nil, inventory.ErrInvalidQuantity
	}

	c, err := s.GetOrCreateActive(customerID)
	if err != nil {
		return nil, err
	}
	if req.Origin != "" && c.Origin != req.Origin {
		s.db.Model(c).UpdateColumn("origin", req.Origin)
	}

	var prod product.Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).
		First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	var existing CartLine
	err = s.db.Where("cart_id = ? AND product_id = ?", c.ID, req.ProductID).
		First(&existing).Error
	switch {
	case err == nil:
		newQuantity := existing.Quantity + req.Quantity
		if newQuantity > prod.Stock {
			return nil, &inventory.InsufficientStockError{
				ProductID: prod.ID,
				Available: prod.Stock,
				Requested: newQuantity,
			}
		}
		existing.Quantity = newQuantity
		existing.Subtotal = existing.UnitPrice.Mul(decimal.NewFromInt(int64(newQuantity)))
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity > prod.Stock {
			return nil, &inventory.InsufficientStockError{
				ProductID: prod.ID,
				Available: prod.Stock,
				Requested: req.Quantity,
			}
		}
		line := CartLine{
			CartID:    c.ID,
			ProductID: prod.ID,
			Quantity:  req.Quantity,
			UnitPrice: prod.SalePrice,
			Subtotal:  prod.LineSubtotal(req.Quantity),
		}
		if err := s.db.Create(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart line: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to retrieve cart line: %w", err)
	}

	return s.GetOrCreateActive(customerID)
}

// UpdateLineQuantity sets the quantity of a line in the customer's active
// cart. A quantity of zero or less removes the line.
func (s *Service) UpdateLineQuantity(customerID, lineID uint, quantity int) (*Cart, error) {
	c, err := s.GetOrCreateActive(customerID)
	if err != nil {
		return nil, err
	}

	var line CartLine
	if err := s.db.Where("id = ? AND cart_id = ?", lineID, c.ID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart line: %w", err)
	}

	if quantity <= 0 {
		if err := s.db.Delete(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart line: %w", err)
		}
		return s.GetOrCreateActive(customerID)
	}

	var prod product.Product
	if err := s.db.First(&prod, line.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	if quantity > prod.Stock {
		return nil, &inventory.InsufficientStockError{
			ProductID: prod.ID,
			Available: prod.Stock,
			Requested: quantity,
		}
	}

	line.Quantity = quantity
	line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if err := s.db.Save(&line).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return s.GetOrCreateActive(customerID)
}

// RemoveLine deletes a single line from the customer's active cart
func (s *Service) RemoveLine(customerID, lineID uint) (*Cart, error) {
	c, err := s.GetOrCreateActive(customerID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND cart_id = ?", lineID, c.ID).Delete(&CartLine{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrLineNotFound
	}

	return s.GetOrCreateActive(customerID)
}

// Clear removes every line from the customer's active cart. The cart row
// itself survives and stays active.
func (s *Service) Clear(customerID uint) (*Cart, error) {
	c, err := s.GetOrCreateActive(customerID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartLine{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return s.GetOrCreateActive(customerID)
}

// GetActiveForCheckout loads the customer's active cart with lines inside tx,
// locking the cart row so two concurrent checkouts of the same cart
// serialize. Returns ErrCartNotFound when the customer has no active cart
// and ErrEmptyCart when it holds no lines.
func (s *Service) GetActiveForCheckout(tx *gorm.DB, customerID uint) (*Cart, error) {
	var c Cart
	err := tx.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_lines.id ASC")
	}).Where("customer_id = ? AND status = ?", customerID, StatusActive).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return &c, nil
}

// Convert marks a cart as converted and removes its lines, inside the
// caller's transaction. The update is guarded on status so a cart can only
// transition out of active once.
func (s *Service) Convert(tx *gorm.DB, cartID uint) error {
	result := tx.Model(&Cart{}).
		Where("id = ? AND status = ?", cartID, StatusActive).
		UpdateColumn("status", StatusConverted)
	if result.Error != nil {
		return fmt.Errorf("failed to convert cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCartNotActive
	}
	if err := tx.Where("cart_id = ?", cartID).Delete(&CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear converted cart: %w", err)
	}
	return nil
}
