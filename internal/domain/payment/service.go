// internal/domain/payment/service.go
package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrPaymentNotFound is returned when no payment matches the lookup
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPaymentSettled is returned when a settlement conflicts with an
	// already-recorded different outcome
	ErrPaymentSettled = errors.New("payment already settled with a different outcome")

	// ErrInvalidMethod is returned for unsupported payment methods
	ErrInvalidMethod = errors.New("invalid payment method")

	// ErrInvalidOutcome is returned when a settlement names a non-terminal status
	ErrInvalidOutcome = errors.New("settlement outcome must be approved or rejected")
)

// Service handles payment business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	sales  *sale.Service
	logger *logrus.Logger
}

// NewService creates a new payment service
func NewService(db *gorm.DB, cfg *config.Config, sales *sale.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		sales:  sales,
		logger: logger,
	}
}

// InitiateRequest represents a request to start collecting a sale
type InitiateRequest struct {
	SaleID uint   `json:"sale_id" binding:"required"`
	Method Method `json:"method" binding:"required"`
}

// Initiate opens a pending payment for a sale. The amount is copied from the
// committed sale total, never taken from the client. For gateway methods the
// generated reference doubles as the idempotency key handed to the provider.
func (s *Service) Initiate(req *InitiateRequest) (*Payment, error) {
	if !IsValidMethod(req.Method) {
		return nil, ErrInvalidMethod
	}

	committed, err := s.sales.GetSale(req.SaleID)
	if err != nil {
		return nil, err
	}

	// Reuse an open payment for the same sale and method instead of piling
	// up pending rows on retried requests.
	var existing Payment
	err = s.db.Where("sale_id = ? AND method = ? AND status IN ?",
		req.SaleID, req.Method, []Status{StatusPending, StatusProcessing}).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	p := Payment{
		SaleID:    req.SaleID,
		Amount:    committed.Total,
		Method:    req.Method,
		Status:    StatusPending,
		Reference: fmt.Sprintf("PAY-%s", uuid.New().String()),
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"sale_id":    p.SaleID,
		"method":     p.Method,
		"amount":     p.Amount.String(),
	}).Info("Payment initiated")

	return &p, nil
}

// MarkSettled records the terminal outcome of a payment. The operation is
// idempotent: re-reporting the outcome already on record is a no-op returning
// the stored payment, while a conflicting outcome fails with
// ErrPaymentSettled and changes nothing.
func (s *Service) MarkSettled(paymentID uint, outcome Status, gatewayRef string) (*Payment, error) {
	if outcome != StatusApproved && outcome != StatusRejected {
		return nil, ErrInvalidOutcome
	}

	var settled *Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}

		if p.IsSettled() {
			if p.Status == outcome {
				settled = &p
				return nil
			}
			return ErrPaymentSettled
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     outcome,
			"settled_at": now,
		}
		if gatewayRef != "" {
			switch p.Method {
			case MethodStripe:
				updates["stripe_payment_intent_id"] = gatewayRef
			case MethodPayPal:
				updates["pay_pal_order_id"] = gatewayRef
			}
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to settle payment: %w", err)
		}

		p.Status = outcome
		p.SettledAt = &now
		settled = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": settled.ID,
		"sale_id":    settled.SaleID,
		"status":     settled.Status,
	}).Info("Payment settled")

	return settled, nil
}

// ConfirmCash settles a cash payment as approved in one step. Used by the
// counter workflow where the cashier takes the money directly.
func (s *Service) ConfirmCash(paymentID uint) (*Payment, error) {
	var p Payment
	if err := s.db.First(&p, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve payment: %w", err)
	}
	if p.Method != MethodCash {
		return nil, ErrInvalidMethod
	}
	return s.MarkSettled(paymentID, StatusApproved, "")
}

// GetPayment retrieves a payment by ID
func (s *Service) GetPayment(id uint) (*Payment, error) {
	var p Payment
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve payment: %w", err)
	}
	return &p, nil
}

// ListBySale returns all payment attempts recorded for a sale, oldest first
func (s *Service) ListBySale(saleID uint) ([]Payment, error) {
	var payments []Payment
	err := s.db.Where("sale_id = ?", saleID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	return payments, nil
}
