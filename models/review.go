package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a customer product review. One review per user per product;
// reviews are hidden from the public listing until approved by an admin.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;index;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID     uint           `gorm:"not null;index;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"-"`
	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title      string         `json:"title"`
	Comment    string         `json:"comment"`
	IsApproved bool           `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
