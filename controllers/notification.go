package controllers

import (
	"net/http"
	"taskflow/middleware"
	"taskflow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	q := nc.DB.Where("user_id = ?", identity.UserID)
	if c.Query("unread") == "true" {
		q = q.Where("`read` = ?", false)
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var notification models.Notification
	if err := nc.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), identity.UserID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	notification.Read = true
	if err := nc.DB.Save(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", identity.UserID, false).
		Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All read"})
}
