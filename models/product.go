package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item. Stock lives here; it is only ever
// mutated through the admin inventory endpoints, never by checkout.
type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null" json:"name"`
	Slug              string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description       string         `json:"description"`
	Price             float64        `gorm:"not null;check:price >= 0" json:"price"`
	Category          string         `gorm:"index" json:"category"`
	Images            []string       `gorm:"serializer:json" json:"images"`             // S3 keys
	ImageURLs         []string       `gorm:"-" json:"image_urls,omitempty"`             // computed, presigned URLs
	Variants          []string       `gorm:"serializer:json" json:"variants,omitempty"` // e.g. sizes or colors
	Stock             int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	LowStockThreshold int            `gorm:"not null;default:5" json:"low_stock_threshold"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock returns true if stock is at or below the low-stock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
