// internal/domain/checkout/service.go
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"gorm.io/gorm"
)

var (
	// ErrNoLines is returned when a direct order carries no lines
	ErrNoLines = errors.New("order must contain at least one line")
)

// Service is the order fulfillment engine. It is the only writer of sales:
// every sale is created inside a single transaction that reserves stock,
// writes the sale with its lines, and updates the customer counter, so a
// failure at any step leaves no partial state behind.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	ledger    *inventory.Ledger
	carts     *cart.Service
	customers *customer.Service
	logger    *logrus.Logger
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config, ledger *inventory.Ledger, carts *cart.Service, customers *customer.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		ledger:    ledger,
		carts:     carts,
		customers: customers,
		logger:    logger,
	}
}

// OrderLine is one requested position in a direct order
type OrderLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents a direct order that bypasses the cart, used by
// the counter and phone channels
type PlaceOrderRequest struct {
	Lines   []OrderLine       `json:"lines" binding:"required,dive"`
	Channel sale.EntryChannel `json:"channel" binding:"required"`
}

// PlaceOrder commits a direct order for the given lines at current catalog
// prices. CustomerID may be nil for anonymous counter sales. Lines for the
// same product are merged before any stock is touched.
func (s *Service) PlaceOrder(customerID *uint, channel sale.EntryChannel, lines []OrderLine) (*sale.Sale, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if !sale.IsValidChannel(channel) {
		return nil, sale.ErrInvalidChannel
	}
	merged := mergeLines(lines)
	for _, line := range merged {
		if line.Quantity < 1 {
			return nil, inventory.ErrInvalidQuantity
		}
	}

	var committed *sale.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		newSale := &sale.Sale{
			CustomerID:   customerID,
			SaleDate:     time.Now(),
			EntryChannel: channel,
			SaleType:     "cash",
			Total:        decimal.Zero,
		}
		if err := tx.Create(newSale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		total := decimal.Zero
		saleLines := make([]sale.SaleLine, 0, len(merged))
		for _, line := range merged {
			if _, err := s.ledger.Reserve(tx, line.ProductID, line.Quantity, "sale", newSale.ID); err != nil {
				return err
			}

			// The product row is locked by the reservation above, so the
			// price read here cannot race a concurrent update.
			var prod product.Product
			if err := tx.Select("id", "sale_price").
				First(&prod, line.ProductID).Error; err != nil {
				return fmt.Errorf("failed to read product price: %w", err)
			}

			subtotal := prod.LineSubtotal(line.Quantity)
			saleLines = append(saleLines, sale.SaleLine{
				SaleID:    newSale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: prod.SalePrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		if err := tx.Create(&saleLines).Error; err != nil {
			return fmt.Errorf("failed to create sale lines: %w", err)
		}
		if err := tx.Model(newSale).UpdateColumn("total", total).Error; err != nil {
			return fmt.Errorf("failed to set sale total: %w", err)
		}
		newSale.Total = total
		newSale.Lines = saleLines

		if customerID != nil {
			if err := s.customers.IncrementPurchases(tx, *customerID); err != nil {
				return err
			}
		}

		committed = newSale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id": committed.ID,
		"channel": committed.EntryChannel,
		"total":   committed.Total.String(),
		"lines":   len(committed.Lines),
	}).Info("Sale committed")

	return committed, nil
}

// PlaceOrderFromCart converts the customer's active cart into a sale. Lines
// are priced at the unit price snapshotted when they were added to the cart,
// not at current catalog prices. On success the cart is marked converted and
// emptied in the same transaction.
func (s *Service) PlaceOrderFromCart(customerID uint, channel sale.EntryChannel) (*sale.Sale, error) {
	if !sale.IsValidChannel(channel) {
		return nil, sale.ErrInvalidChannel
	}

	var committed *sale.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.carts.GetActiveForCheckout(tx, customerID)
		if err != nil {
			return err
		}

		cid := customerID
		newSale := &sale.Sale{
			CustomerID:   &cid,
			SaleDate:     time.Now(),
			EntryChannel: channel,
			SaleType:     "cash",
			Total:        decimal.Zero,
		}
		if err := tx.Create(newSale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		total := decimal.Zero
		saleLines := make([]sale.SaleLine, 0, len(c.Lines))
		for _, line := range c.Lines {
			if _, err := s.ledger.Reserve(tx, line.ProductID, line.Quantity, "sale", newSale.ID); err != nil {
				return err
			}
			saleLines = append(saleLines, sale.SaleLine{
				SaleID:    newSale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Subtotal,
			})
			total = total.Add(line.Subtotal)
		}

		if err := tx.Create(&saleLines).Error; err != nil {
			return fmt.Errorf("failed to create sale lines: %w", err)
		}
		if err := tx.Model(newSale).UpdateColumn("total", total).Error; err != nil {
			return fmt.Errorf("failed to set sale total: %w", err)
		}
		newSale.Total = total
		newSale.Lines = saleLines

		if err := s.carts.Convert(tx, c.ID); err != nil {
			return err
		}
		if err := s.customers.IncrementPurchases(tx, customerID); err != nil {
			return err
		}

		committed = newSale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id":     committed.ID,
		"customer_id": customerID,
		"channel":     committed.EntryChannel,
		"total":       committed.Total.String(),
		"lines":       len(committed.Lines),
	}).Info("Cart checkout committed")

	return committed, nil
}

// mergeLines collapses duplicate product IDs, keeping first-seen order so
// stock reservations run deterministically.
func mergeLines(lines []OrderLine) []OrderLine {
	index := make(map[uint]int, len(lines))
	merged := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}
