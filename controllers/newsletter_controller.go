package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
)

// NewsletterRequest represents the request body for newsletter actions
type NewsletterRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscribeNewsletter handles POST /api/v1/newsletter/subscribe - adds
// an email to the newsletter list. Resubscribing a previously
// unsubscribed address reactivates it.
func SubscribeNewsletter(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A valid email is required",
			},
		})
		return
	}

	subscriber := models.NewsletterSubscriber{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		IsActive:     true,
		SubscribedAt: time.Now(),
	}

	db := config.GetDB()
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_active":     true,
			"subscribed_at": time.Now(),
		}),
	}).Create(&subscriber).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to subscribe",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Subscribed"},
	})
}

// UnsubscribeNewsletter handles POST /api/v1/newsletter/unsubscribe -
// deactivates a subscription. The row is kept so resubscription reuses it.
func UnsubscribeNewsletter(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A valid email is required",
			},
		})
		return
	}

	db := config.GetDB()
	result := db.Model(&models.NewsletterSubscriber{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to unsubscribe",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBSCRIBER_NOT_FOUND",
				"message": "This email is not subscribed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Unsubscribed"},
	})
}
