package models

import (
	"time"

	"gorm.io/gorm"
)

// Custom order statuses
const (
	CustomOrderStatusPending  = "pending"
	CustomOrderStatusReviewed = "reviewed"
	CustomOrderStatusQuoted   = "quoted"
	CustomOrderStatusAccepted = "accepted"
	CustomOrderStatusRejected = "rejected"
)

// CustomOrder is a made-to-order request submitted from the storefront.
// Requests can come from guests, so contact details live on the request
// itself rather than on a user account.
type CustomOrder struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"not null" json:"email"`
	Phone          string         `json:"phone"`
	Description    string         `gorm:"not null" json:"description"`
	Budget         float64        `json:"budget"`
	ReferenceImage string         `json:"reference_image,omitempty"` // S3 key
	Status         string         `gorm:"not null;default:'pending'" json:"status"`
	AdminNotes     string         `json:"admin_notes,omitempty"`
	QuotedPrice    *float64       `json:"quoted_price,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the CustomOrder model
func (CustomOrder) TableName() string {
	return "custom_orders"
}

// ValidCustomOrderStatus reports whether s is a known custom order status
func ValidCustomOrderStatus(s string) bool {
	switch s {
	case CustomOrderStatusPending, CustomOrderStatusReviewed,
		CustomOrderStatusQuoted, CustomOrderStatusAccepted, CustomOrderStatusRejected:
		return true
	}
	return false
}
