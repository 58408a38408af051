package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
)

const markAllReadDetail = "All notifications have been marked as read."

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// GetAllNotifications -> GET /notifications?is_read=
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	isRead, err := queryBool(c, "is_read")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifs, err := nc.Notifications.List(c.Request.Context(), id, isRead)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newNotificationList(notifs))
}

func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	notifID, ok := pathID(c, "notif_id")
	if !ok {
		return
	}

	notif, err := nc.Notifications.Get(c.Request.Context(), id, notifID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notif)
}

// UnreadCount -> GET /notifications/unread-count
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	count, err := nc.Notifications.UnreadCount(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAllRead -> POST /notifications/mark_all_read
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	updated, err := nc.Notifications.MarkAllRead(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"detail":  markAllReadDetail,
		"updated": updated,
	})
}

// MarkRead -> POST /notifications/:notif_id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	notifID, ok := pathID(c, "notif_id")
	if !ok {
		return
	}

	notif, err := nc.Notifications.MarkRead(c.Request.Context(), id, notifID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notif)
}

// UpdateNotification -> PATCH /notifications/:notif_id
// Only the read state can be changed by the recipient.
func (nc *NotificationController) UpdateNotification(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	notifID, ok := pathID(c, "notif_id")
	if !ok {
		return
	}

	var body struct {
		IsRead *bool `json:"is_read" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif, err := nc.Notifications.SetRead(c.Request.Context(), id, notifID, *body.IsRead)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notif)
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	notifID, ok := pathID(c, "notif_id")
	if !ok {
		return
	}

	if err := nc.Notifications.Delete(c.Request.Context(), id, notifID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateNotification -> POST /notifications (staff only)
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var body struct {
		RecipientID uint    `json:"recipient_id" binding:"required"`
		Type        string  `json:"type" binding:"max=50"`
		Title       string  `json:"title" binding:"required,max=200"`
		Message     string  `json:"message" binding:"required"`
		Link        *string `json:"link" binding:"omitempty,max=255"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif, err := nc.Notifications.Create(c.Request.Context(), id, services.CreateNotificationInput{
		RecipientID: body.RecipientID,
		Type:        body.Type,
		Title:       body.Title,
		Message:     body.Message,
		Link:        body.Link,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notif)
}
