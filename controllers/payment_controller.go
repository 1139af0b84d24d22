package controllers

import (
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
)

// CreatePaymentOrderRequest represents the request body for creating a
// gateway payment order
type CreatePaymentOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// CreatePaymentOrder handles POST /api/v1/payment/create-order - creates
// a payment order on the gateway for the storefront checkout widget
func CreatePaymentOrder(c *gin.Context) {
	gateway := services.GetPaymentGateway()
	if gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GATEWAY_UNAVAILABLE",
				"message": "Payment gateway is not configured",
			},
		})
		return
	}

	var req CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_AMOUNT",
				"message": "A positive amount is required",
			},
		})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + uuid.NewString()
	}

	// Gateway amounts are in the smallest currency unit (paise)
	amountPaise := int64(math.Round(req.Amount * 100))

	gatewayOrder, err := gateway.CreateOrder(c.Request.Context(), amountPaise, currency, receipt)
	if err != nil {
		log.Printf("failed to create gateway order: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GATEWAY_ERROR",
				"message": "Failed to create payment order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orderId":  gatewayOrder.ID,
			"amount":   gatewayOrder.Amount,
			"currency": gatewayOrder.Currency,
			"keyId":    gateway.KeyID(),
		},
	})
}

// VerifyPaymentRequest represents the gateway callback payload plus the
// optional internal order id to reconcile against
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           uint   `json:"order_id"`
}

// VerifyPayment handles POST /api/v1/payment/verify - verifies the
// gateway signature and, when an internal order is supplied and resolves,
// marks it paid and confirmed. Signature validity is the authoritative
// outcome: a missing or unresolvable internal order still verifies, so a
// client-side race between payment confirmation and order creation does
// not fail the call.
func VerifyPayment(c *gin.Context) {
	gateway := services.GetPaymentGateway()
	if gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GATEWAY_UNAVAILABLE",
				"message": "Payment gateway is not configured",
			},
		})
		return
	}

	var req VerifyPaymentRequest
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

	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FIELDS",
				"message": "razorpay_order_id, razorpay_payment_id and razorpay_signature are required",
			},
		})
		return
	}

	if !gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SIGNATURE",
				"message": "Payment signature verification failed",
			},
		})
		return
	}

	// Signature is valid. Order linkage is secondary enrichment: resolve
	// the internal order if one was supplied and mark it paid.
	if req.OrderID != 0 {
		db := config.GetDB()
		var order models.Order
		if err := db.First(&order, req.OrderID).Error; err == nil {
			if err := markOrderPaid(db, &order, &req); err != nil {
				// The payment itself is verified; reconciliation failure is
				// logged and retried out of band rather than surfaced
				log.Printf("payment verified but order %d reconciliation failed: %v", order.ID, err)
			} else {
				if err := db.Preload("Items").Preload("Timeline").First(&order, order.ID).Error; err == nil {
					services.NotifyAsync(func(n services.Notifier) {
						n.PaymentConfirmed(&order)
					})
				}
			}
		} else {
			log.Printf("payment verified for unknown internal order %d", req.OrderID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"paymentId": req.RazorpayPaymentID,
			"orderId":   req.RazorpayOrderID,
		},
	})
}

// markOrderPaid records a verified payment on the order: payment details
// are populated at most once, status moves to confirmed, and the paired
// timeline entry is written in the same transaction
func markOrderPaid(db *gorm.DB, order *models.Order, req *VerifyPaymentRequest) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Order{}).
			Where("id = ? AND gateway_payment_id IS NULL", order.ID).
			Updates(map[string]interface{}{
				"payment_status":     models.PaymentStatusPaid,
				"status":             models.OrderStatusConfirmed,
				"gateway_order_id":   req.RazorpayOrderID,
				"gateway_payment_id": req.RazorpayPaymentID,
				"gateway_signature":  req.RazorpaySignature,
				"paid_at":            now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Payment details already recorded; verification is idempotent
			return nil
		}

		entry := models.OrderTimelineEntry{
			OrderID: order.ID,
			Status:  models.OrderStatusConfirmed,
			Message: "Payment received, order confirmed",
		}
		return tx.Create(&entry).Error
	})
}
