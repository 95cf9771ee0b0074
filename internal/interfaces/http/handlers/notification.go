// internal/interfaces/http/handlers/notification.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// NotificationHandler handles notice and device endpoints
type NotificationHandler struct {
	notificationService *notification.Service
	config              *config.Config
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notification.NewService(db, cfg, logger),
		config:              cfg,
	}
}

// GetNotices handles GET /notices, the customer-facing list of sent notices
func (h *NotificationHandler) GetNotices(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 50)
	notices, err := h.notificationService.ListNotices(true, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notices retrieved successfully",
		"data":    notices,
	})
}

// ListNotices handles GET /admin/notices, including drafts
func (h *NotificationHandler) ListNotices(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 50)
	notices, err := h.notificationService.ListNotices(false, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notices retrieved successfully",
		"data":    notices,
	})
}

// CreateNotice handles POST /admin/notices
func (h *NotificationHandler) CreateNotice(c *gin.Context) {
	var req notification.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	n, err := h.notificationService.CreateNotice(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Notice created successfully",
		"data":    n,
	})
}

// UpdateNotice handles PUT /admin/notices/:id
func (h *NotificationHandler) UpdateNotice(c *gin.Context) {
	noticeID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notice ID"})
		return
	}

	var update notification.NoticeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	n, err := h.notificationService.UpdateNotice(noticeID, &update)
	if err != nil {
		if err == notification.ErrNoticeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err == notification.ErrNoticeAlreadySent {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notice updated successfully",
		"data":    n,
	})
}

// DeleteNotice handles DELETE /admin/notices/:id
func (h *NotificationHandler) DeleteNotice(c *gin.Context) {
	noticeID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notice ID"})
		return
	}

	if err := h.notificationService.DeleteNotice(noticeID); err != nil {
		if err == notification.ErrNoticeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err == notification.ErrNoticeAlreadySent {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notice deleted successfully",
	})
}

// DispatchNotice handles POST /admin/notices/:id/dispatch
func (h *NotificationHandler) DispatchNotice(c *gin.Context) {
	noticeID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notice ID"})
		return
	}

	n, err := h.notificationService.Dispatch(noticeID)
	if err != nil {
		if err == notification.ErrNoticeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err == notification.ErrNoticeAlreadySent {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notice dispatched successfully",
		"data":    n,
	})
}

// RegisterDevice handles POST /devices
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req notification.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	d, err := h.notificationService.RegisterDevice(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Device registered successfully",
		"data":    d,
	})
}

// UnregisterDevice handles DELETE /devices
func (h *NotificationHandler) UnregisterDevice(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Device token required",
		})
		return
	}

	if err := h.notificationService.UnregisterDevice(userID, req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device unregistered successfully",
	})
}
