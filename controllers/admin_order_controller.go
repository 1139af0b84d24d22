package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
)

// orderFilterFields is the allow-list of query parameters admins may
// filter the order list by. Anything else is ignored.
var orderFilterFields = map[string]string{
	"status":         "status",
	"payment_status": "payment_status",
}

// buildOrderFilters turns allow-listed query parameters into a typed
// filter map for GORM
func buildOrderFilters(c *gin.Context) map[string]interface{} {
	filters := make(map[string]interface{})
	for param, column := range orderFilterFields {
		if value := c.Query(param); value != "" {
			filters[column] = value
		}
	}
	return filters
}

// ListAdminOrders handles GET /api/v1/admin/orders - lists all orders
// with optional status/payment_status filters and pagination
func ListAdminOrders(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filters := buildOrderFilters(c)

	var total int64
	if err := db.Model(&models.Order{}).Where(filters).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	if err := db.Where(filters).
		Preload("Items").
		Preload("Timeline").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"meta": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}

// AdminUpdateOrderRequest represents the request body for admin order
// updates. All fields are optional; tracking fields are set independently
// and existing values are never cleared.
type AdminUpdateOrderRequest struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	Carrier        string `json:"carrier"`
	Notes          string `json:"notes"`
}

// UpdateAdminOrder handles PUT /api/v1/admin/orders/:id - admin updates
// to status, payment status and tracking. A status change appends exactly
// one timeline entry in the same transaction as the status write.
func UpdateAdminOrder(c *gin.Context) {
	var req AdminUpdateOrderRequest
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
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	statusChanged := req.Status != "" && req.Status != order.Status
	if statusChanged {
		updates["status"] = req.Status
		// The admin graph is deliberately open; backwards moves are
		// applied but logged for review
		if !models.IsForwardTransition(order.Status, req.Status) {
			log.Printf("anomalous status transition on order %s: %s -> %s",
				order.OrderNumber, order.Status, req.Status)
		}
	}
	if req.PaymentStatus != "" {
		updates["payment_status"] = req.PaymentStatus
	}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = req.TrackingNumber
	}
	if req.TrackingURL != "" {
		updates["tracking_url"] = req.TrackingURL
	}
	if req.Carrier != "" {
		updates["carrier"] = req.Carrier
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "No updatable fields supplied",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		if statusChanged {
			message := req.Notes
			if message == "" {
				message = models.DefaultTimelineMessage(req.Status)
			}
			entry := models.OrderTimelineEntry{
				OrderID: order.ID,
				Status:  req.Status,
				Message: message,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("failed to update order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	if err := db.Preload("Items").Preload("Timeline").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	if statusChanged {
		services.NotifyAsync(func(n services.Notifier) {
			n.OrderStatusChanged(&order)
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
