// internal/domain/notification/entity.go
package notification

import (
	"time"
)

// NoticeType classifies a storefront notice
type NoticeType string

const (
	TypeInfo      NoticeType = "info"
	TypePromotion NoticeType = "promotion"
	TypeAlert     NoticeType = "alert"
)

// NoticeState tracks the delivery lifecycle of a notice
type NoticeState string

const (
	StateDraft     NoticeState = "draft"
	StateScheduled NoticeState = "scheduled"
	StateSent      NoticeState = "sent"
)

// Notice is an announcement shown to customers and optionally pushed to their
// registered devices
type Notice struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Subject     string      `gorm:"not null;size:200" json:"subject"`
	Message     string      `gorm:"not null;size:2000" json:"message"`
	Type        NoticeType  `gorm:"not null;size:20;default:'info'" json:"type"`
	State       NoticeState `gorm:"not null;size:20;default:'draft';index" json:"state"`
	Priority    int         `gorm:"not null;default:0" json:"priority"`
	ScheduledAt *time.Time  `json:"scheduled_at,omitempty"`
	SentAt      *time.Time  `json:"sent_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Device is a push notification endpoint registered by a user's client
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_token,unique" json:"user_id"`
	Token     string    `gorm:"not null;size:500;index:idx_user_token,unique" json:"token"`
	Platform  string    `gorm:"size:20" json:"platform"` // android, ios, web
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Notice) TableName() string { return "notices" }
func (Device) TableName() string { return "devices" }

// IsDue reports whether a scheduled notice should be dispatched at now
func (n *Notice) IsDue(now time.Time) bool {
	if n.State != StateScheduled {
		return false
	}
	return n.ScheduledAt == nil || !now.Before(*n.ScheduledAt)
}
