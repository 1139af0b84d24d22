package services

import (
	"context"
	"fmt"
	"sync"
)

// MockPaymentGateway is an in-memory PaymentGateway for testing. It signs
// with a fixed secret so tests can mint valid signatures.
type MockPaymentGateway struct {
	Secret string

	mu            sync.Mutex
	counter       int
	createdOrders []*GatewayOrder
	CreateErr     error
}

// NewMockPaymentGateway creates a mock gateway with the given signing secret
func NewMockPaymentGateway(secret string) *MockPaymentGateway {
	return &MockPaymentGateway{Secret: secret}
}

// SetAsMockForTesting sets this mock as the global gateway instance
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// KeyID returns a fixed test key identifier
func (m *MockPaymentGateway) KeyID() string {
	return "rzp_test_mock"
}

// CreateOrder simulates creating a payment order on the gateway
func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	order := &GatewayOrder{
		ID:       fmt.Sprintf("order_mock%06d", m.counter),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	m.createdOrders = append(m.createdOrders, order)
	return order, nil
}

// VerifySignature verifies against the mock's signing secret
func (m *MockPaymentGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return VerifyPaymentSignature(m.Secret, gatewayOrderID, gatewayPaymentID, signature)
}

// Sign produces a valid signature for the given order/payment pair (for
// test assertions)
func (m *MockPaymentGateway) Sign(gatewayOrderID, gatewayPaymentID string) string {
	return ComputePaymentSignature(m.Secret, gatewayOrderID, gatewayPaymentID)
}

// CreatedOrders returns a copy of the orders created through this mock
func (m *MockPaymentGateway) CreatedOrders() []*GatewayOrder {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]*GatewayOrder, len(m.createdOrders))
	copy(orders, m.createdOrders)
	return orders
}
