package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// CouponError explains why a coupon could not be applied
type CouponError struct {
	Code    string
	Message string
}

func (e *CouponError) Error() string {
	return e.Message
}

// Coupon represents a discount code with a validity window and an
// optional usage limit
type Coupon struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Code              string         `gorm:"uniqueIndex;not null" json:"code"` // stored uppercase
	Description       string         `json:"description"`
	DiscountType      string         `gorm:"not null" json:"discount_type"` // "percentage" or "fixed"
	DiscountValue     float64        `gorm:"not null" json:"discount_value"`
	MinOrderAmount    float64        `json:"min_order_amount"`              // 0 = no minimum
	MaxDiscountAmount float64        `json:"max_discount_amount"`           // 0 = no cap
	UsageLimit        int            `json:"usage_limit"`                   // 0 = unlimited
	UsedCount         int            `gorm:"not null;default:0" json:"used_count"`
	ValidFrom         time.Time      `json:"valid_from"`
	ValidUntil        time.Time      `json:"valid_until"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// HasUsageRemaining reports whether the usage limit (if any) is not exhausted
func (c *Coupon) HasUsageRemaining() bool {
	return c.UsageLimit == 0 || c.UsedCount < c.UsageLimit
}

// EligibilityError returns nil when the coupon is currently eligible for
// an order of the given amount, or a CouponError explaining the failure.
// Eligible means: active, inside the validity window, usage remaining,
// and the minimum order amount met.
func (c *Coupon) EligibilityError(orderAmount float64, now time.Time) *CouponError {
	if !c.IsActive {
		return &CouponError{Code: "COUPON_INACTIVE", Message: "This coupon is no longer active"}
	}
	if now.Before(c.ValidFrom) {
		return &CouponError{Code: "COUPON_NOT_STARTED", Message: "This coupon is not valid yet"}
	}
	if now.After(c.ValidUntil) {
		return &CouponError{Code: "COUPON_EXPIRED", Message: "This coupon has expired"}
	}
	if !c.HasUsageRemaining() {
		return &CouponError{Code: "COUPON_EXHAUSTED", Message: "This coupon has reached its usage limit"}
	}
	if c.MinOrderAmount > 0 && orderAmount < c.MinOrderAmount {
		return &CouponError{
			Code:    "COUPON_MIN_AMOUNT",
			Message: fmt.Sprintf("Minimum order amount of %.2f not met", c.MinOrderAmount),
		}
	}
	return nil
}

// DiscountFor computes the discount for the given order amount. Percentage
// discounts are capped by MaxDiscountAmount when set, and no discount ever
// exceeds the order amount itself.
func (c *Coupon) DiscountFor(orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = orderAmount.
			Mul(decimal.NewFromFloat(c.DiscountValue)).
			Div(decimal.NewFromInt(100))
		if c.MaxDiscountAmount > 0 {
			cap := decimal.NewFromFloat(c.MaxDiscountAmount)
			if discount.GreaterThan(cap) {
				discount = cap
			}
		}
	case DiscountTypeFixed:
		discount = decimal.NewFromFloat(c.DiscountValue)
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	return discount.Round(2)
}
