// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role distinguishes back-office staff from storefront customers
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents a login account. Storefront data hangs off the customer
// profile, which is created together with the account.
type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Email               string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password            string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName           string         `gorm:"size:100" json:"first_name"`
	LastName            string         `gorm:"size:100" json:"last_name"`
	Phone               string         `gorm:"size:20" json:"phone"`
	Role                Role           `gorm:"not null;size:20;default:'customer'" json:"role"`
	IsActive            bool           `gorm:"default:true" json:"is_active"`
	FailedLoginAttempts int            `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time     `json:"-"`
	RecoveryToken       string         `gorm:"size:100;index" json:"-"`
	RecoveryTokenExpiry *time.Time     `json:"-"`
	LastLoginAt         *time.Time     `json:"last_login_at"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuditEntry is one row of the security audit trail. Entries are append-only.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Email     string    `gorm:"size:255" json:"email"`
	Action    string    `gorm:"not null;size:50;index" json:"action"`
	Detail    string    `gorm:"size:500" json:"detail"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// Audit actions
const (
	AuditLoginSuccess     = "login_success"
	AuditLoginFailed      = "login_failed"
	AuditAccountLocked    = "account_locked"
	AuditRegister         = "register"
	AuditPasswordRecovery = "password_recovery"
	AuditPasswordReset    = "password_reset"
	AuditPasswordChange   = "password_change"
)

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for AuditEntry
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// BeforeCreate hook to normalize the email before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the account has back-office privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLocked reports whether the account is currently blocked from logging in
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
