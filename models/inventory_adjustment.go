package models

import (
	"time"
)

// InventoryAdjustment is an append-only ledger row recording every stock
// change made through the admin inventory endpoint, including who made it
// and why. Rows are never updated or deleted.
type InventoryAdjustment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	AdminID       uint      `gorm:"not null;index" json:"admin_id"`
	Delta         int       `gorm:"not null" json:"delta"`
	PreviousStock int       `gorm:"not null" json:"previous_stock"`
	NewStock      int       `gorm:"not null" json:"new_stock"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the InventoryAdjustment model
func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}
