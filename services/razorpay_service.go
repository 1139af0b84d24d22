package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appConfig "github.com/kalakriti-studio/kalakriti-api/config"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// GatewayOrder is a payment order created on the gateway. Amount is in
// the currency's smallest unit (paise for INR).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentGateway defines the interface for payment gateway operations
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	KeyID() string
}

// RazorpayService implements PaymentGateway against the Razorpay REST API
type RazorpayService struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
}

var gatewayInstance PaymentGateway

// InitPaymentGateway initializes the Razorpay gateway from configuration.
// Returns an error when the keys are not configured; callers treat a nil
// gateway as "payments unavailable".
func InitPaymentGateway() (PaymentGateway, error) {
	cfg := appConfig.GetConfig()
	if !cfg.HasPaymentGateway() {
		return nil, fmt.Errorf("razorpay keys are not configured")
	}

	gatewayInstance = &RazorpayService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   razorpayBaseURL,
		keyID:     cfg.RazorpayKeyID,
		keySecret: cfg.RazorpayKeySecret,
	}

	return gatewayInstance, nil
}

// GetPaymentGateway returns the initialized gateway instance (nil when
// payments are not configured)
func GetPaymentGateway() PaymentGateway {
	return gatewayInstance
}

// SetPaymentGateway sets the gateway instance (primarily for testing)
func SetPaymentGateway(gateway PaymentGateway) {
	gatewayInstance = gateway
}

// KeyID returns the public key identifier the storefront checkout needs
func (s *RazorpayService) KeyID() string {
	return s.keyID
}

// CreateOrder creates a payment order on Razorpay
func (s *RazorpayService) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &order, nil
}

// VerifySignature checks that a payment confirmation originated from the
// gateway by recomputing the HMAC over "orderId|paymentId"
func (s *RazorpayService) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return VerifyPaymentSignature(s.keySecret, gatewayOrderID, gatewayPaymentID, signature)
}

// ComputePaymentSignature returns the hex HMAC-SHA256 digest of
// "orderId|paymentId" under the gateway key secret
func ComputePaymentSignature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature compares the expected digest against the supplied
// signature in constant time
func VerifyPaymentSignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	expected := ComputePaymentSignature(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
