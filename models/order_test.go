package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCancel(t *testing.T) {
	tests := []struct {
		status    string
		canCancel bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, true},
		{OrderStatusProcessing, false},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
		{OrderStatusRefunded, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			order := Order{Status: tt.status}
			assert.Equal(t, tt.canCancel, order.CanCancel())
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{OrderStatusPending, false},
		{OrderStatusConfirmed, false},
		{OrderStatusProcessing, false},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
		{OrderStatusRefunded, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			order := Order{Status: tt.status}
			assert.Equal(t, tt.terminal, order.IsTerminal())
		})
	}
}

func TestIsForwardTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		forward bool
	}{
		{"Pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"Confirmed to shipped skipping processing", OrderStatusConfirmed, OrderStatusShipped, true},
		{"Pending straight to delivered", OrderStatusPending, OrderStatusDelivered, true},
		{"Shipped back to processing", OrderStatusShipped, OrderStatusProcessing, false},
		{"Delivered back to pending", OrderStatusDelivered, OrderStatusPending, false},
		{"Same status is not forward", OrderStatusShipped, OrderStatusShipped, false},
		{"Cancellation from anywhere", OrderStatusShipped, OrderStatusCancelled, true},
		{"Refund from anywhere", OrderStatusDelivered, OrderStatusRefunded, true},
		{"Out of cancelled is not ranked", OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.forward, IsForwardTransition(tt.from, tt.to))
		})
	}
}

func TestInvoiceNumber(t *testing.T) {
	order := Order{OrderNumber: "ORD-20260810-A1B2C3"}
	assert.Equal(t, "INV-ORD-20260810-A1B2C3", order.InvoiceNumber())
}

func TestHasPaymentDetails(t *testing.T) {
	order := Order{}
	assert.False(t, order.HasPaymentDetails())

	paymentID := "pay_123"
	order.GatewayPaymentID = &paymentID
	assert.True(t, order.HasPaymentDetails())
}

func TestDefaultTimelineMessage(t *testing.T) {
	assert.Equal(t, "Order shipped", DefaultTimelineMessage(OrderStatusShipped))
	assert.Equal(t, "Order delivered", DefaultTimelineMessage(OrderStatusDelivered))
	// Unknown statuses still produce a usable message
	assert.Equal(t, "Order status updated to on_hold", DefaultTimelineMessage("on_hold"))
}
