package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/utils"
)

// TrackOrder handles GET /api/v1/track - public order tracking by order
// number, no authentication. The response is a reduced projection that
// never exposes more customer PII than first name and city. An optional
// phone number is verified loosely on its last 4 digits to tolerate
// formatting differences.
func TrackOrder(c *gin.Context) {
	orderNumber := strings.ToUpper(strings.TrimSpace(c.Query("orderNumber")))
	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "orderNumber query parameter is required",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("order_number = ?", orderNumber).
		Preload("Timeline").
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "No order found with this order number",
			},
		})
		return
	}

	if phone := c.Query("phone"); phone != "" {
		if !utils.PhoneLastFourMatch(phone, order.ShippingAddress.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PHONE_MISMATCH",
					"message": "Phone number does not match this order",
				},
			})
			return
		}
	}

	firstName := order.ShippingAddress.Name
	if idx := strings.IndexByte(firstName, ' '); idx > 0 {
		firstName = firstName[:idx]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_number":   order.OrderNumber,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"customer_name":  firstName,
			"city":           order.ShippingAddress.City,
			"order_date":     order.CreatedAt,
			"tracking": gin.H{
				"tracking_number": order.TrackingNumber,
				"tracking_url":    order.TrackingURL,
				"carrier":         order.Carrier,
			},
			"timeline":           order.Timeline,
			"estimated_delivery": utils.EstimatedDelivery(order.Status, order.CreatedAt),
		},
	})
}
