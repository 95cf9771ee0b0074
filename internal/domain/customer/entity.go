// internal/domain/customer/entity.go
package customer

import (
	"time"
)

// Customer is the storefront profile attached to a user account. Carts and
// sales hang off this profile, not off the login account itself.
type Customer struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	City               string    `gorm:"size:120" json:"city"`
	PostalCode         string    `gorm:"size:20" json:"postal_code"`
	PurchasePreference string    `gorm:"size:100" json:"purchase_preference"`
	TotalPurchases     int       `gorm:"not null;default:0" json:"total_purchases"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}
