// internal/domain/payment/entity.go
package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Method identifies how a payment is collected
type Method string

const (
	MethodStripe Method = "stripe"
	MethodPayPal Method = "paypal"
	MethodCash   Method = "cash"
)

// Status represents the payment lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusRefunded   Status = "refunded"
	StatusCancelled  Status = "cancelled"
)

// Payment tracks money collection for one sale. The sale itself stays
// immutable; all payment state lives here.
type Payment struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	SaleID                uint            `gorm:"not null;index" json:"sale_id"`
	Amount                decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method                Method          `gorm:"not null;size:20" json:"method"`
	Status                Status          `gorm:"not null;size:20;default:'pending'" json:"status"`
	StripePaymentIntentID string          `gorm:"size:255" json:"stripe_payment_intent_id,omitempty"`
	StripeClientSecret    string          `gorm:"size:255" json:"-"`
	PayPalOrderID         string          `gorm:"size:255" json:"paypal_order_id,omitempty"`
	Reference             string          `gorm:"size:100;uniqueIndex" json:"reference"`
	SettledAt             *time.Time      `json:"settled_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Payment) TableName() string {
	return "payments"
}

// IsSettled reports whether the payment reached a terminal outcome
func (p *Payment) IsSettled() bool {
	switch p.Status {
	case StatusApproved, StatusRejected, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// IsValidMethod reports whether m names a supported payment method
func IsValidMethod(m Method) bool {
	switch m {
	case MethodStripe, MethodPayPal, MethodCash:
		return true
	}
	return false
}
