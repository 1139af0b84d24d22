package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/middleware"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
	"github.com/kalakriti-studio/kalakriti-api/utils"
)

// FlatShippingCost is charged below the free-shipping threshold
const FlatShippingCost = 50

// OrderItemRequest is one cart line in a checkout request
type OrderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Variant   string `json:"variant"`
}

// ShippingAddressRequest carries the checkout shipping address
type ShippingAddressRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	CouponCode      string                 `json:"coupon_code"`
}

// freeShippingThreshold reads the configured free-shipping cutoff
func freeShippingThreshold() float64 {
	cfg := config.GetConfig()
	if cfg == nil {
		return 999
	}
	threshold, err := strconv.ParseFloat(cfg.FreeShippingAbove, 64)
	if err != nil {
		return 999
	}
	return threshold
}

// CreateOrder handles POST /api/v1/orders - places a new order from a
// cart snapshot. Item name, price and image are snapshotted from the live
// products; totals are computed server-side.
func CreateOrder(c *gin.Context) {
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

	var req CreateOrderRequest
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

	// Snapshot the cart: resolve every product and copy name/price/image
	// onto the order item so later product edits never change this order
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		var product models.Product
		if err := db.Where("id = ? AND is_active = ?", line.ProductID, true).First(&product).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "One or more products in the cart are unavailable",
				},
			})
			return
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Variant:   line.Variant,
			Image:     image,
		})

		lineTotal := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}

	// Apply coupon if supplied
	now := time.Now()
	discount := decimal.Zero
	var coupon *models.Coupon
	if req.CouponCode != "" {
		code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		var found models.Coupon
		if err := db.Where("code = ?", code).First(&found).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "COUPON_INVALID",
					"message": "This coupon code is not valid",
				},
			})
			return
		}

		subtotalFloat, _ := subtotal.Float64()
		if couponErr := found.EligibilityError(subtotalFloat, now); couponErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    couponErr.Code,
					"message": couponErr.Message,
				},
			})
			return
		}

		discount = found.DiscountFor(subtotal)
		coupon = &found
	}

	// Shipping: flat rate below the free-shipping threshold
	shipping := decimal.Zero
	if subtotal.LessThan(decimal.NewFromFloat(freeShippingThreshold())) {
		shipping = decimal.NewFromInt(FlatShippingCost)
	}

	tax := decimal.Zero
	total := subtotal.Sub(discount).Add(shipping).Add(tax)

	order := models.Order{
		OrderNumber:   utils.GenerateOrderNumber(now),
		UserID:        userID,
		Items:         items,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		ShippingAddress: models.ShippingAddress{
			Name:       req.ShippingAddress.Name,
			Phone:      req.ShippingAddress.Phone,
			Email:      req.ShippingAddress.Email,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		Subtotal:     subtotal.InexactFloat64(),
		ShippingCost: shipping.InexactFloat64(),
		Discount:     discount.InexactFloat64(),
		Tax:          tax.InexactFloat64(),
		Total:        total.InexactFloat64(),
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	// Order, items, the first timeline entry and the coupon usage count
	// are committed together
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		entry := models.OrderTimelineEntry{
			OrderID: order.ID,
			Status:  models.OrderStatusPending,
			Message: "Order placed",
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if coupon != nil {
			result := tx.Model(&models.Coupon{}).
				Where("id = ?", coupon.ID).
				Update("used_count", gorm.Expr("used_count + 1"))
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("failed to create order for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Reload with items and timeline to return complete data
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

	// Best-effort notification; failure never fails the request
	services.NotifyAsync(func(n services.Notifier) {
		n.OrderPlaced(&order)
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists the authenticated user's
// orders, newest first
func ListOrders(c *gin.Context) {
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

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Timeline").
		Order("created_at DESC").
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
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches one of the
// authenticated user's orders. Ownership is enforced in the query itself,
// never by filtering after the fetch.
func GetOrder(c *gin.Context) {
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

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Preload("Items").
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderRequest represents the request body for user order actions
type UpdateOrderRequest struct {
	Action string `json:"action" binding:"required"`
}

// UpdateOrder handles PUT /api/v1/orders/:id - user-initiated order
// actions. The only supported action is "cancel", allowed while the order
// is still pending or confirmed.
func UpdateOrder(c *gin.Context) {
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

	var req UpdateOrderRequest
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

	if req.Action != "cancel" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ACTION",
				"message": "Unsupported action: " + req.Action,
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if !order.CanCancel() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "This order can no longer be cancelled",
			},
		})
		return
	}

	// Cancel and append the paired timeline entry atomically. The status
	// guard in the WHERE clause closes the race against a concurrent
	// transition out of a cancellable state.
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]string{models.OrderStatusPending, models.OrderStatusConfirmed}).
			Update("status", models.OrderStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry := models.OrderTimelineEntry{
			OrderID: order.ID,
			Status:  models.OrderStatusCancelled,
			Message: "Order cancelled by customer",
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "This order can no longer be cancelled",
				},
			})
			return
		}
		log.Printf("failed to cancel order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel order",
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

	services.NotifyAsync(func(n services.Notifier) {
		n.OrderStatusChanged(&order)
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
