package services

import (
	"sync"

	"github.com/kalakriti-studio/kalakriti-api/models"
)

// MockNotifier records notification calls for test assertions
type MockNotifier struct {
	mu     sync.Mutex
	events []string
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SetAsMockForTesting sets this mock as the global notifier instance
func (m *MockNotifier) SetAsMockForTesting() {
	SetNotifier(m)
}

func (m *MockNotifier) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// OrderPlaced records an order-placed event
func (m *MockNotifier) OrderPlaced(order *models.Order) {
	m.record("order_placed:" + order.OrderNumber)
}

// OrderStatusChanged records a status-changed event
func (m *MockNotifier) OrderStatusChanged(order *models.Order) {
	m.record("status_changed:" + order.OrderNumber + ":" + order.Status)
}

// PaymentConfirmed records a payment-confirmed event
func (m *MockNotifier) PaymentConfirmed(order *models.Order) {
	m.record("payment_confirmed:" + order.OrderNumber)
}

// CustomOrderReceived records a custom-order event
func (m *MockNotifier) CustomOrderReceived(customOrder *models.CustomOrder) {
	m.record("custom_order_received:" + customOrder.Email)
}

// Events returns a copy of the recorded events
func (m *MockNotifier) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]string, len(m.events))
	copy(events, m.events)
	return events
}

// Clear removes all recorded events
func (m *MockNotifier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
