package models

import (
	"time"
)

// Order statuses. Processing and shipped are fulfillment states set by
// admins; the core only constrains the ones it checks explicitly.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// AnonymizedValue overwrites shipping PII when an account is deleted.
// Orders themselves are retained as business records.
const AnonymizedValue = "[deleted]"

// ShippingAddress is embedded into the order row. Name, phone and email
// may be overwritten with AnonymizedValue on account deletion.
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem is a point-in-time snapshot of a product at purchase. Name,
// price and image are copied at order creation and never re-derived from
// the live product, so the order keeps its original terms even if the
// product later changes price or is deleted.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"index" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Quantity  int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Variant   string  `json:"variant,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderTimelineEntry is one row of the append-only audit trail. Entries
// are only ever inserted; after any status transition the newest entry's
// status matches the order's current status.
type OrderTimelineEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"not null" json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderTimelineEntry model
func (OrderTimelineEntry) TableName() string {
	return "order_timeline_entries"
}

// Order is the central entity of the storefront. It is never physically
// deleted; account deletion only anonymizes the shipping contact fields.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`

	Items    []OrderItem          `gorm:"foreignKey:OrderID" json:"items"`
	Timeline []OrderTimelineEntry `gorm:"foreignKey:OrderID" json:"timeline"`

	Status        string `gorm:"not null;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentMethod string `json:"payment_method"`

	// Payment details, populated exactly once on successful verification
	GatewayOrderID   *string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `json:"gateway_payment_id,omitempty"`
	GatewaySignature *string    `json:"-"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	// Tracking fields are set independently and never cleared implicitly
	TrackingNumber string `json:"tracking_number,omitempty"`
	TrackingURL    string `json:"tracking_url,omitempty"`
	Carrier        string `json:"carrier,omitempty"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	Subtotal     float64 `gorm:"not null" json:"subtotal"`
	ShippingCost float64 `gorm:"not null" json:"shipping_cost"`
	Discount     float64 `gorm:"not null" json:"discount"`
	Tax          float64 `gorm:"not null" json:"tax"`
	Total        float64 `gorm:"not null" json:"total"`
	CouponCode   string  `json:"coupon_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// CanCancel reports whether the owning user may still cancel the order.
// Once an order is in fulfillment or terminal, cancellation is rejected.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// IsTerminal reports whether the order is in a final state
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// HasPaymentDetails reports whether gateway payment details were recorded
func (o *Order) HasPaymentDetails() bool {
	return o.GatewayPaymentID != nil
}

// InvoiceNumber returns the invoice identifier derived from the order number
func (o *Order) InvoiceNumber() string {
	return "INV-" + o.OrderNumber
}

// statusRank orders the forward fulfillment progression. Cancelled and
// refunded sit outside the progression and are reachable from anywhere
// by an admin.
var statusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// IsForwardTransition reports whether a status change follows the normal
// fulfillment progression. Admin updates that are not forward are still
// applied, but callers log them as anomalies.
func IsForwardTransition(from, to string) bool {
	if to == OrderStatusCancelled || to == OrderStatusRefunded {
		return true
	}
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank > fromRank
}

// DefaultTimelineMessage returns the human-readable message recorded in
// the timeline when an admin changes status without supplying notes
func DefaultTimelineMessage(status string) string {
	switch status {
	case OrderStatusPending:
		return "Order placed"
	case OrderStatusConfirmed:
		return "Order confirmed"
	case OrderStatusProcessing:
		return "Order is being prepared"
	case OrderStatusShipped:
		return "Order shipped"
	case OrderStatusDelivered:
		return "Order delivered"
	case OrderStatusCancelled:
		return "Order cancelled"
	case OrderStatusRefunded:
		return "Order refunded"
	}
	return "Order status updated to " + status
}
