package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/middleware"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
)

// ReturnWindowDays is how long after delivery a return may be requested
const ReturnWindowDays = 7

// CreateReturnRequest represents the request body for requesting a return
type CreateReturnRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
	Items   string `json:"items"`
}

// CreateReturn handles POST /api/v1/returns - requests a return for a
// delivered order. The order must belong to the requester, be delivered,
// and the delivery must be within the return window.
func CreateReturn(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", req.OrderID, userID).
		Preload("Timeline").
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.Status != models.OrderStatusDelivered {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Only delivered orders can be returned",
			},
		})
		return
	}

	// The delivery moment is the delivered timeline entry
	var deliveredAt time.Time
	for _, entry := range order.Timeline {
		if entry.Status == models.OrderStatusDelivered {
			deliveredAt = entry.CreatedAt
		}
	}
	if !deliveredAt.IsZero() && time.Since(deliveredAt) > ReturnWindowDays*24*time.Hour {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETURN_WINDOW_CLOSED",
				"message": "The return window for this order has closed",
			},
		})
		return
	}

	returnRequest := models.ReturnRequest{
		OrderID: order.ID,
		UserID:  userID,
		Reason:  req.Reason,
		Items:   req.Items,
		Status:  models.ReturnStatusRequested,
	}

	if err := db.Create(&returnRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create return request",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    returnRequest,
	})
}

// ListReturns handles GET /api/v1/admin/returns - lists all return
// requests, optionally filtered by status
func ListReturns(c *gin.Context) {
	db := config.GetDB()

	query := db.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var returns []models.ReturnRequest
	if err := query.Find(&returns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch return requests",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    returns,
	})
}

// UpdateReturnRequest represents the request body for admin return updates
type UpdateReturnRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// UpdateReturn handles PUT /api/v1/admin/returns/:id - moves a return
// request through its states. Moving to "refunded" also flips the parent
// order to refunded/refunded with a paired timeline entry, all in one
// transaction.
func UpdateReturn(c *gin.Context) {
	var req UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var returnRequest models.ReturnRequest
	if err := db.First(&returnRequest, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETURN_NOT_FOUND",
				"message": "Return request not found",
			},
		})
		return
	}

	if !models.CanTransitionReturn(returnRequest.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Cannot move return from " + returnRequest.Status + " to " + req.Status,
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": req.Status}
		if req.AdminNotes != "" {
			updates["admin_notes"] = req.AdminNotes
		}
		if err := tx.Model(&returnRequest).Updates(updates).Error; err != nil {
			return err
		}

		if req.Status == models.ReturnStatusRefunded {
			if err := tx.Model(&models.Order{}).
				Where("id = ?", returnRequest.OrderID).
				Updates(map[string]interface{}{
					"status":         models.OrderStatusRefunded,
					"payment_status": models.PaymentStatusRefunded,
				}).Error; err != nil {
				return err
			}

			entry := models.OrderTimelineEntry{
				OrderID: returnRequest.OrderID,
				Status:  models.OrderStatusRefunded,
				Message: "Return received, order refunded",
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("failed to update return %d: %v", returnRequest.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update return request",
			},
		})
		return
	}

	if req.Status == models.ReturnStatusRefunded {
		var order models.Order
		if err := db.Preload("Items").Preload("Timeline").First(&order, returnRequest.OrderID).Error; err == nil {
			services.NotifyAsync(func(n services.Notifier) {
				n.OrderStatusChanged(&order)
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    returnRequest,
	})
}
