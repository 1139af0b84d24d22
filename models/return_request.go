package models

import (
	"time"

	"gorm.io/gorm"
)

// Return request statuses
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusReceived  = "received"
	ReturnStatusRefunded  = "refunded"
)

// ReturnRequest tracks a customer's request to return a delivered order.
// Moving a request to "refunded" also flips the parent order to
// refunded/refunded with a timeline entry.
type ReturnRequest struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	Order      Order          `gorm:"foreignKey:OrderID" json:"-"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Reason     string         `gorm:"not null" json:"reason"`
	Items      string         `json:"items,omitempty"` // free-text item description
	Status     string         `gorm:"not null;default:'requested'" json:"status"`
	AdminNotes string         `json:"admin_notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ReturnRequest model
func (ReturnRequest) TableName() string {
	return "return_requests"
}

// returnTransitions is the allow-list of admin return-status moves
var returnTransitions = map[string][]string{
	ReturnStatusRequested: {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved:  {ReturnStatusReceived, ReturnStatusRejected},
	ReturnStatusReceived:  {ReturnStatusRefunded},
}

// CanTransitionReturn reports whether a return request may move from one
// status to another
func CanTransitionReturn(from, to string) bool {
	for _, allowed := range returnTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
