// internal/domain/notification/service.go
package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoticeNotFound is returned when no notice matches the lookup
	ErrNoticeNotFound = errors.New("notice not found")

	// ErrNoticeAlreadySent is returned when dispatch targets a sent notice
	ErrNoticeAlreadySent = errors.New("notice already sent")
)

// Service handles notices and device registrations
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new notification service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// CreateNoticeRequest represents notice creation data
type CreateNoticeRequest struct {
	Subject     string     `json:"subject" binding:"required,max=200"`
	Message     string     `json:"message" binding:"required,max=2000"`
	Type        NoticeType `json:"type"`
	Priority    int        `json:"priority"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// NoticeUpdate is the allow-listed set of mutable notice fields. Sent notices
// are immutable.
type NoticeUpdate struct {
	Subject     *string     `json:"subject,omitempty"`
	Message     *string     `json:"message,omitempty"`
	Type        *NoticeType `json:"type,omitempty"`
	Priority    *int        `json:"priority,omitempty"`
	ScheduledAt *time.Time  `json:"scheduled_at,omitempty"`
}

// RegisterDeviceRequest represents a push token registration
type RegisterDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=android ios web"`
}

// CreateNotice creates a notice. A schedule time puts it straight into the
// scheduled state; otherwise it stays a draft.
func (s *Service) CreateNotice(req *CreateNoticeRequest) (*Notice, error) {
	n := Notice{
		Subject:     req.Subject,
		Message:     req.Message,
		Type:        req.Type,
		Priority:    req.Priority,
		State:       StateDraft,
		ScheduledAt: req.ScheduledAt,
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	if req.ScheduledAt != nil {
		n.State = StateScheduled
	}

	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}
	return &n, nil
}

// GetNotice retrieves a notice by ID
func (s *Service) GetNotice(id uint) (*Notice, error) {
	var n Notice
	if err := s.db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, fmt.Errorf("failed to retrieve notice: %w", err)
	}
	return &n, nil
}

// ListNotices returns notices ordered by priority then recency. When
// sentOnly is true only dispatched notices are returned, which is what the
// storefront shows to customers.
func (s *Service) ListNotices(sentOnly bool, limit int) ([]Notice, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	query := s.db.Model(&Notice{})
	if sentOnly {
		query = query.Where("state = ?", StateSent)
	}
	var notices []Notice
	err := query.Order("priority DESC, id DESC").Limit(limit).Find(&notices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notices: %w", err)
	}
	return notices, nil
}

// UpdateNotice applies an allow-listed field update to an unsent notice
func (s *Service) UpdateNotice(id uint, update *NoticeUpdate) (*Notice, error) {
	n, err := s.GetNotice(id)
	if err != nil {
		return nil, err
	}
	if n.State == StateSent {
		return nil, ErrNoticeAlreadySent
	}

	if update.Subject != nil {
		n.Subject = *update.Subject
	}
	if update.Message != nil {
		n.Message = *update.Message
	}
	if update.Type != nil {
		n.Type = *update.Type
	}
	if update.Priority != nil {
		n.Priority = *update.Priority
	}
	if update.ScheduledAt != nil {
		n.ScheduledAt = update.ScheduledAt
		n.State = StateScheduled
	}

	if err := s.db.Save(n).Error; err != nil {
		return nil, fmt.Errorf("failed to update notice: %w", err)
	}
	return n, nil
}

// DeleteNotice removes an unsent notice
func (s *Service) DeleteNotice(id uint) error {
	n, err := s.GetNotice(id)
	if err != nil {
		return err
	}
	if n.State == StateSent {
		return ErrNoticeAlreadySent
	}
	if err := s.db.Delete(n).Error; err != nil {
		return fmt.Errorf("failed to delete notice: %w", err)
	}
	return nil
}

// Dispatch marks a notice as sent. The state transition is guarded under a
// row lock so a notice is dispatched at most once even with concurrent calls.
func (s *Service) Dispatch(id uint) (*Notice, error) {
	var dispatched *Notice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n Notice
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&n, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoticeNotFound
			}
			return fmt.Errorf("failed to lock notice: %w", err)
		}
		if n.State == StateSent {
			return ErrNoticeAlreadySent
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"state":   StateSent,
			"sent_at": now,
		}
		if err := tx.Model(&n).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to dispatch notice: %w", err)
		}
		n.State = StateSent
		n.SentAt = &now
		dispatched = &n
		return nil
	})
	if err != nil {
		return nil, err
	}

	var targets int64
	if s.config.External.Push.Enabled {
		s.db.Model(&Device{}).Where("is_active = ?", true).Count(&targets)
	}
	s.logger.WithFields(logrus.Fields{
		"notice_id": dispatched.ID,
		"subject":   dispatched.Subject,
		"devices":   targets,
	}).Info("Notice dispatched")

	return dispatched, nil
}

// RegisterDevice stores a push token for a user, reactivating it when the
// same token is registered again
func (s *Service) RegisterDevice(userID uint, req *RegisterDeviceRequest) (*Device, error) {
	var d Device
	err := s.db.Where("user_id = ? AND token = ?", userID, req.Token).First(&d).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"is_active": true,
			"platform":  req.Platform,
		}
		if err := s.db.Model(&d).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh device: %w", err)
		}
		d.IsActive = true
		d.Platform = req.Platform
		return &d, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		d = Device{
			UserID:   userID,
			Token:    req.Token,
			Platform: req.Platform,
			IsActive: true,
		}
		if err := s.db.Create(&d).Error; err != nil {
			return nil, fmt.Errorf("failed to register device: %w", err)
		}
		return &d, nil
	default:
		return nil, fmt.Errorf("failed to look up device: %w", err)
	}
}

// UnregisterDevice deactivates a push token owned by the user
func (s *Service) UnregisterDevice(userID uint, token string) error {
	result := s.db.Model(&Device{}).
		Where("user_id = ? AND token = ?", userID, token).
		UpdateColumn("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to unregister device: %w", result.Error)
	}
	return nil
}

// ListDevices returns the user's registered devices
func (s *Service) ListDevices(userID uint) ([]Device, error) {
	var devices []Device
	err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve devices: %w", err)
	}
	return devices, nil
}
