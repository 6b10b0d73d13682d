package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkout-service/internal/middleware"
	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

// NotificationHandler serves in-app notifications for merchants
type NotificationHandler struct {
	notifications repository.NotificationRepositoryInterface
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications repository.NotificationRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := h.notifications.ListByUser(c.Request.Context(), actor.ID, unreadOnly, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

// MarkRead handles PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor := middleware.GetActor(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "notification id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID, actor.ID); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "notification not found",
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
