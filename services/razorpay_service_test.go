package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePaymentSignatureIsDeterministic(t *testing.T) {
	a := ComputePaymentSignature("secret", "order_123", "pay_456")
	b := ComputePaymentSignature("secret", "order_123", "pay_456")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "hex SHA-256 digest should be 64 characters")
}

func TestVerifyPaymentSignatureRoundTrip(t *testing.T) {
	pairs := []struct{ orderID, paymentID string }{
		{"order_123", "pay_456"},
		{"order_abc", "pay_def"},
		{"", ""},
	}

	for _, p := range pairs {
		sig := ComputePaymentSignature("secret", p.orderID, p.paymentID)
		assert.True(t, VerifyPaymentSignature("secret", p.orderID, p.paymentID, sig),
			"signature computed for (%q, %q) should verify", p.orderID, p.paymentID)
	}
}

func TestVerifyPaymentSignatureRejectsMutations(t *testing.T) {
	sig := ComputePaymentSignature("secret", "order_123", "pay_456")

	// Flip every character in turn; all must fail
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		assert.False(t, VerifyPaymentSignature("secret", "order_123", "pay_456", string(mutated)),
			"mutated signature at index %d should not verify", i)
	}

	// Wrong secret fails
	assert.False(t, VerifyPaymentSignature("other-secret", "order_123", "pay_456", sig))
	// Swapped identifiers fail
	assert.False(t, VerifyPaymentSignature("secret", "pay_456", "order_123", sig))
}

func TestMockPaymentGateway(t *testing.T) {
	mock := NewMockPaymentGateway("mock-secret")

	order, err := mock.CreateOrder(context.Background(), 90000, "INR", "rcpt-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(90000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.NotEmpty(t, order.ID)

	sig := mock.Sign(order.ID, "pay_test1")
	assert.True(t, mock.VerifySignature(order.ID, "pay_test1", sig))
	assert.False(t, mock.VerifySignature(order.ID, "pay_test1", sig+"x"))

	assert.Len(t, mock.CreatedOrders(), 1)
}
