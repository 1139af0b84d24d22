package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
)

// ValidateCouponRequest represents the request body for a coupon preview
type ValidateCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required,gt=0"`
}

// ValidateCoupon handles POST /api/v1/coupons/validate - checks a coupon
// against an order amount and previews the discount without consuming a
// use
func ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
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
	var coupon models.Coupon
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := db.Where("code = ?", code).First(&coupon).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COUPON_INVALID",
				"message": "This coupon code is not valid",
			},
		})
		return
	}

	if couponErr := coupon.EligibilityError(req.OrderAmount, time.Now()); couponErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    couponErr.Code,
				"message": couponErr.Message,
			},
		})
		return
	}

	discount := coupon.DiscountFor(decimal.NewFromFloat(req.OrderAmount))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"code":          coupon.Code,
			"discount_type": coupon.DiscountType,
			"discount":      discount.InexactFloat64(),
		},
	})
}

// CouponRequest represents the request body for creating or updating a
// coupon
type CouponRequest struct {
	Code              string    `json:"code" binding:"required"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue     float64   `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount    float64   `json:"min_order_amount"`
	MaxDiscountAmount float64   `json:"max_discount_amount"`
	UsageLimit        int       `json:"usage_limit"`
	ValidFrom         time.Time `json:"valid_from" binding:"required"`
	ValidUntil        time.Time `json:"valid_until" binding:"required"`
	IsActive          *bool     `json:"is_active"`
}

// CreateCoupon handles POST /api/v1/admin/coupons - creates a coupon.
// Codes are stored uppercase.
func CreateCoupon(c *gin.Context) {
	var req CouponRequest
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

	coupon := models.Coupon{
		Code:              strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	db := config.GetDB()
	if err := db.Create(&coupon).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "COUPON_EXISTS",
					"message": "A coupon with this code already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create coupon",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// ListCoupons handles GET /api/v1/admin/coupons - lists all coupons
func ListCoupons(c *gin.Context) {
	db := config.GetDB()

	var coupons []models.Coupon
	if err := db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch coupons",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupons,
	})
}

// UpdateCoupon handles PUT /api/v1/admin/coupons/:id - updates a coupon.
// The code itself is immutable once created; usage counts are only
// changed by checkout.
func UpdateCoupon(c *gin.Context) {
	var req CouponRequest
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
	var coupon models.Coupon
	if err := db.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COUPON_NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	updates := map[string]interface{}{
		"description":         req.Description,
		"discount_type":       req.DiscountType,
		"discount_value":      req.DiscountValue,
		"min_order_amount":    req.MinOrderAmount,
		"max_discount_amount": req.MaxDiscountAmount,
		"usage_limit":         req.UsageLimit,
		"valid_from":          req.ValidFrom,
		"valid_until":         req.ValidUntil,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := db.Model(&coupon).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update coupon",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// DeleteCoupon handles DELETE /api/v1/admin/coupons/:id - soft-deletes a
// coupon
func DeleteCoupon(c *gin.Context) {
	db := config.GetDB()
	var coupon models.Coupon
	if err := db.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COUPON_NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	if err := db.Delete(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete coupon",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Coupon deleted"},
	})
}
