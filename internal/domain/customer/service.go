// internal/domain/customer/service.go
package customer

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// ErrCustomerNotFound is returned when no profile exists for the lookup
var ErrCustomerNotFound = errors.New("customer profile not found")

// Service handles customer profile business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CustomerUpdate is the allow-listed set of mutable profile fields
type CustomerUpdate struct {
	City               *string `json:"city,omitempty"`
	PostalCode         *string `json:"postal_code,omitempty"`
	PurchasePreference *string `json:"purchase_preference,omitempty"`
}

// EnsureProfile returns the customer profile for a user, creating it when
// missing. User registration calls this explicitly instead of relying on a
// persistence hook, so the dependency is visible and testable.
func (s *Service) EnsureProfile(tx *gorm.DB, userID uint) (*Customer, error) {
	if tx == nil {
		tx = s.db
	}

	var cust Customer
	err := tx.Where("user_id = ?", userID).First(&cust).Error
	if err == nil {
		return &cust, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up customer profile: %w", err)
	}

	cust = Customer{UserID: userID}
	if err := tx.Create(&cust).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer profile: %w", err)
	}
	return &cust, nil
}

// GetByUserID resolves the customer profile owned by a user account
func (s *Service) GetByUserID(userID uint) (*Customer, error) {
	var cust Customer
	if err := s.db.Where("user_id = ?", userID).First(&cust).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer profile: %w", err)
	}
	return &cust, nil
}

// GetCustomer retrieves a customer profile by ID
func (s *Service) GetCustomer(id uint) (*Customer, error) {
	var cust Customer
	if err := s.db.First(&cust, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer profile: %w", err)
	}
	return &cust, nil
}

// UpdateProfile applies an allow-listed field update to a customer profile
func (s *Service) UpdateProfile(userID uint, update *CustomerUpdate) (*Customer, error) {
	cust, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if update.City != nil {
		cust.City = *update.City
	}
	if update.PostalCode != nil {
		cust.PostalCode = *update.PostalCode
	}
	if update.PurchasePreference != nil {
		cust.PurchasePreference = *update.PurchasePreference
	}

	if err := s.db.Save(cust).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}
	return cust, nil
}

// IncrementPurchases bumps the running purchase counter inside tx. Called by
// checkout after the sale rows are persisted.
func (s *Service) IncrementPurchases(tx *gorm.DB, customerID uint) error {
	result := tx.Model(&Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("total_purchases", gorm.Expr("total_purchases + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment purchase counter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
