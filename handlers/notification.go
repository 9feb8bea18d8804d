package handlers

import (
	"fileshare/utils"

	"github.com/gin-gonic/gin"
)

func ListNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	notifications, err := getServices().Notifications.List(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{"notifications": notifications})
}

func MarkNotificationRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Notifications.MarkRead(c.Request.Context(), notificationID, userID)) {
		return
	}

	utils.Success(c, nil)
}

func DeleteNotification(c *gin.Context) {
	userID := c.GetUint("user_id")
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Notifications.Delete(c.Request.Context(), notificationID, userID)) {
		return
	}

	utils.Success(c, nil)
}
