package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/middleware"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
)

// setupAcceptanceEnvironment wires an in-memory database, test config and
// mock payment gateway so the full router can serve real requests
func setupAcceptanceEnvironment(t *testing.T) *services.MockPaymentGateway {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTimelineEntry{},
		&models.Coupon{},
		&models.CustomOrder{},
		&models.Review{},
		&models.ReturnRequest{},
		&models.NewsletterSubscriber{},
		&models.InventoryAdjustment{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.SetDB(db)

	config.SetConfig(&config.Config{
		GoEnv:             "test",
		JWTSecret:         "acceptance-test-secret",
		FreeShippingAbove: "999",
	})

	gateway := services.NewMockPaymentGateway("acceptance-gateway-secret")
	gateway.SetAsMockForTesting()
	t.Cleanup(func() {
		services.SetPaymentGateway(nil)
	})

	return gateway
}

// registerAcceptanceUser creates an account through the API and returns
// the session token from the auth cookie
func registerAcceptanceUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"name":     "Asha Verma",
		"email":    email,
		"password": "password123",
		"phone":    "+91-98765-43210",
	})

	req, _ := http.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to register user: status %d, body %s", w.Code, w.Body.String())
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AuthCookieName {
			return cookie.Value
		}
	}

	t.Fatal("Register response did not set the auth cookie")
	return ""
}

// doJSON performs an authenticated JSON request against the router
func doJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestServerStartup verifies the full router can be built
func TestServerStartup(t *testing.T) {
	router := setupRouter()
	assert.NotNil(t, router, "Router should be initialized")
}

// TestCheckoutFlowAcceptance walks the whole storefront purchase journey
// through the real router: register, place an order with a coupon, pay
// through the gateway, and track the order publicly.
func TestCheckoutFlowAcceptance(t *testing.T) {
	gateway := setupAcceptanceEnvironment(t)
	router := setupRouter()
	db := config.GetDB()

	// Seed the catalog and a live coupon
	product := models.Product{
		Name:     "Terracotta Wall Hanging",
		Slug:     "terracotta-wall-hanging",
		Price:    600,
		Category: "wall-decor",
		Stock:    10,
	}
	assert.NoError(t, db.Create(&product).Error)

	coupon := models.Coupon{
		Code:           "SAVE10",
		DiscountType:   models.DiscountTypePercentage,
		DiscountValue:  10,
		MinOrderAmount: 500,
		ValidFrom:      time.Now().Add(-time.Hour),
		ValidUntil:     time.Now().Add(24 * time.Hour),
		IsActive:       true,
	}
	assert.NoError(t, db.Create(&coupon).Error)

	// Step 1: register and pick up the session cookie
	token := registerAcceptanceUser(t, router, "asha@example.com")

	// Step 2: place the order. Two units at 600 gives subtotal 1200, the
	// coupon takes 120 off, and 1200 clears the free-shipping threshold.
	w := doJSON(router, "POST", "/api/v1/orders", token, gin.H{
		"items": []gin.H{
			{"product_id": product.ID, "quantity": 2},
		},
		"shipping_address": gin.H{
			"name":        "Asha Verma",
			"phone":       "+91-98765-43210",
			"email":       "asha@example.com",
			"line1":       "12 Artisan Street",
			"city":        "Jaipur",
			"state":       "Rajasthan",
			"postal_code": "302001",
			"country":     "India",
		},
		"payment_method": "razorpay",
		"coupon_code":    "SAVE10",
	})
	assert.Equal(t, http.StatusCreated, w.Code, "Order creation failed: %s", w.Body.String())

	var orderResp struct {
		Data struct {
			ID          uint    `json:"id"`
			OrderNumber string  `json:"order_number"`
			Status      string  `json:"status"`
			Subtotal    float64 `json:"subtotal"`
			Discount    float64 `json:"discount"`
			Total       float64 `json:"total"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResp))
	assert.Equal(t, models.OrderStatusPending, orderResp.Data.Status)
	assert.Equal(t, 1200.0, orderResp.Data.Subtotal)
	assert.Equal(t, 120.0, orderResp.Data.Discount)
	assert.Equal(t, 1080.0, orderResp.Data.Total)

	// Step 3: create the gateway payment order for the total
	w = doJSON(router, "POST", "/api/v1/payment/create-order", token, gin.H{
		"amount": orderResp.Data.Total,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var paymentResp struct {
		Data struct {
			OrderID string `json:"orderId"`
			Amount  int64  `json:"amount"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &paymentResp))
	assert.Equal(t, int64(108000), paymentResp.Data.Amount, "Gateway amount should be in paise")

	// Step 4: confirm the payment with a gateway-signed callback
	paymentID := "pay_acceptance001"
	w = doJSON(router, "POST", "/api/v1/payment/verify", token, gin.H{
		"razorpay_order_id":   paymentResp.Data.OrderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  gateway.Sign(paymentResp.Data.OrderID, paymentID),
		"order_id":            orderResp.Data.ID,
	})
	assert.Equal(t, http.StatusOK, w.Code, "Payment verification failed: %s", w.Body.String())

	// The order is now confirmed and paid, with the payment entry appended
	var order models.Order
	assert.NoError(t, db.Preload("Timeline").First(&order, orderResp.Data.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.NotNil(t, order.GatewayPaymentID)
	assert.Len(t, order.Timeline, 2)

	// The coupon use was consumed exactly once
	var usedCoupon models.Coupon
	assert.NoError(t, db.First(&usedCoupon, coupon.ID).Error)
	assert.Equal(t, 1, usedCoupon.UsedCount)

	// Step 5: track the order publicly with order number plus phone last-4
	trackURL := fmt.Sprintf("/api/v1/track?orderNumber=%s&phone=3210", orderResp.Data.OrderNumber)
	w = doJSON(router, "GET", trackURL, "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "Tracking failed: %s", w.Body.String())

	var trackResp struct {
		Data struct {
			Status   string                   `json:"status"`
			Timeline []map[string]interface{} `json:"timeline"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &trackResp))
	assert.Equal(t, models.OrderStatusConfirmed, trackResp.Data.Status)
	assert.Len(t, trackResp.Data.Timeline, 2)

	// Tracking is a public projection: full contact details stay private
	assert.NotContains(t, w.Body.String(), "asha@example.com")
	assert.NotContains(t, w.Body.String(), "Artisan Street")
}

// TestCancellationFlowAcceptance places an order and cancels it before
// payment, then checks the cancelled order no longer accepts payment state
func TestCancellationFlowAcceptance(t *testing.T) {
	setupAcceptanceEnvironment(t)
	router := setupRouter()
	db := config.GetDB()

	product := models.Product{
		Name:  "Jute Coasters",
		Slug:  "jute-coasters",
		Price: 250,
		Stock: 20,
	}
	assert.NoError(t, db.Create(&product).Error)

	token := registerAcceptanceUser(t, router, "ravi@example.com")

	w := doJSON(router, "POST", "/api/v1/orders", token, gin.H{
		"items": []gin.H{
			{"product_id": product.ID, "quantity": 1},
		},
		"shipping_address": gin.H{
			"name":        "Ravi Nair",
			"phone":       "+91-91234-56789",
			"email":       "ravi@example.com",
			"line1":       "4 Lake View Road",
			"city":        "Kochi",
			"state":       "Kerala",
			"postal_code": "682001",
			"country":     "India",
		},
		"payment_method": "razorpay",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var orderResp struct {
		Data struct {
			ID    uint    `json:"id"`
			Total float64 `json:"total"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResp))
	// 250 is under the free-shipping threshold so flat shipping applies
	assert.Equal(t, 300.0, orderResp.Data.Total)

	// Cancel while still pending
	w = doJSON(router, "PUT", fmt.Sprintf("/api/v1/orders/%d", orderResp.Data.ID), token, gin.H{
		"action": "cancel",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.Preload("Timeline").First(&order, orderResp.Data.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Len(t, order.Timeline, 2)

	// A second cancel attempt is rejected
	w = doJSON(router, "PUT", fmt.Sprintf("/api/v1/orders/%d", orderResp.Data.ID), token, gin.H{
		"action": "cancel",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
