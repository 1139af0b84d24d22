package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
)

func seedCoupons(t *testing.T) {
	t.Helper()

	db := config.GetDB()
	now := time.Now()

	coupons := []models.Coupon{
		{
			Code:           "SAVE10",
			DiscountType:   models.DiscountTypePercentage,
			DiscountValue:  10,
			MinOrderAmount: 500,
			ValidFrom:      now.Add(-time.Hour),
			ValidUntil:     now.Add(24 * time.Hour),
			IsActive:       true,
		},
		{
			Code:              "CAPPED20",
			DiscountType:      models.DiscountTypePercentage,
			DiscountValue:     20,
			MaxDiscountAmount: 100,
			ValidFrom:         now.Add(-time.Hour),
			ValidUntil:        now.Add(24 * time.Hour),
			IsActive:          true,
		},
		{
			Code:          "FLAT200",
			DiscountType:  models.DiscountTypeFixed,
			DiscountValue: 200,
			ValidFrom:     now.Add(-time.Hour),
			ValidUntil:    now.Add(24 * time.Hour),
			IsActive:      true,
		},
		{
			Code:          "OLDCODE",
			DiscountType:  models.DiscountTypeFixed,
			DiscountValue: 50,
			ValidFrom:     now.Add(-48 * time.Hour),
			ValidUntil:    now.Add(-24 * time.Hour),
			IsActive:      true,
		},
		{
			Code:          "PAUSED",
			DiscountType:  models.DiscountTypeFixed,
			DiscountValue: 50,
			ValidFrom:     now.Add(-time.Hour),
			ValidUntil:    now.Add(24 * time.Hour),
			IsActive:      true,
		},
		{
			Code:          "USEDUP",
			DiscountType:  models.DiscountTypeFixed,
			DiscountValue: 50,
			UsageLimit:    3,
			UsedCount:     3,
			ValidFrom:     now.Add(-time.Hour),
			ValidUntil:    now.Add(24 * time.Hour),
			IsActive:      true,
		},
	}
	for i := range coupons {
		if err := db.Create(&coupons[i]).Error; err != nil {
			t.Fatalf("Failed to seed coupon %s: %v", coupons[i].Code, err)
		}
	}

	// IsActive:false cannot be set through Create because of the column default
	db.Model(&models.Coupon{}).Where("code = ?", "PAUSED").Update("is_active", false)
}

func TestValidateCoupon(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	seedCoupons(t)

	tests := []struct {
		name             string
		requestBody      map[string]interface{}
		expectedStatus   int
		expectedError    string
		expectedDiscount float64
	}{
		{
			name:             "Percentage discount",
			requestBody:      map[string]interface{}{"code": "SAVE10", "order_amount": 1000},
			expectedStatus:   http.StatusOK,
			expectedDiscount: 100,
		},
		{
			name:             "Lowercase code matches",
			requestBody:      map[string]interface{}{"code": "save10", "order_amount": 1000},
			expectedStatus:   http.StatusOK,
			expectedDiscount: 100,
		},
		{
			name:             "Percentage discount capped",
			requestBody:      map[string]interface{}{"code": "CAPPED20", "order_amount": 2000},
			expectedStatus:   http.StatusOK,
			expectedDiscount: 100, // 20% of 2000 is 400, capped at 100
		},
		{
			name:             "Fixed discount",
			requestBody:      map[string]interface{}{"code": "FLAT200", "order_amount": 1000},
			expectedStatus:   http.StatusOK,
			expectedDiscount: 200,
		},
		{
			name:             "Fixed discount never exceeds order amount",
			requestBody:      map[string]interface{}{"code": "FLAT200", "order_amount": 150},
			expectedStatus:   http.StatusOK,
			expectedDiscount: 150,
		},
		{
			name:           "Unknown code",
			requestBody:    map[string]interface{}{"code": "NOSUCH", "order_amount": 1000},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "COUPON_INVALID",
		},
		{
			name:           "Expired coupon",
			requestBody:    map[string]interface{}{"code": "OLDCODE", "order_amount": 1000},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "COUPON_EXPIRED",
		},
		{
			name:           "Inactive coupon",
			requestBody:    map[string]interface{}{"code": "PAUSED", "order_amount": 1000},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "COUPON_INACTIVE",
		},
		{
			name:           "Exhausted coupon",
			requestBody:    map[string]interface{}{"code": "USEDUP", "order_amount": 1000},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "COUPON_EXHAUSTED",
		},
		{
			name:           "Below minimum order amount",
			requestBody:    map[string]interface{}{"code": "SAVE10", "order_amount": 300},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "COUPON_MIN_AMOUNT",
		},
		{
			name:           "Missing order amount",
			requestBody:    map[string]interface{}{"code": "SAVE10"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/coupons/validate", ValidateCoupon)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, tt.expectedDiscount, data["discount"])
			}
		})
	}
}

func TestValidateCoupon_DoesNotConsumeUse(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	seedCoupons(t)

	router := setupTestRouter()
	router.POST("/coupons/validate", ValidateCoupon)

	body, _ := json.Marshal(map[string]interface{}{"code": "SAVE10", "order_amount": 1000})
	req, _ := http.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var coupon models.Coupon
	db.Where("code = ?", "SAVE10").First(&coupon)
	assert.Equal(t, 0, coupon.UsedCount, "Validation must not consume a use")
}

func TestCreateCoupon(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	admin := models.User{Name: "Admin", Email: "cadmin@example.com", PasswordHash: "h", Role: models.RoleAdmin}
	db.Create(&admin)

	now := time.Now()
	validBody := map[string]interface{}{
		"code":           "newyear25",
		"discount_type":  "percentage",
		"discount_value": 25,
		"valid_from":     now.Format(time.RFC3339),
		"valid_until":    now.Add(7 * 24 * time.Hour).Format(time.RFC3339),
	}

	router := setupTestRouter()
	router.POST("/coupons",
		mockAuthMiddleware(admin.ID, admin.Email, admin.Role),
		CreateCoupon,
	)

	body, _ := json.Marshal(validBody)
	req, _ := http.NewRequest(http.MethodPost, "/coupons", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	// Codes are stored uppercase regardless of input
	assert.Equal(t, "NEWYEAR25", data["code"])

	// Creating the same code again conflicts
	req, _ = http.NewRequest(http.MethodPost, "/coupons", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "COUPON_EXISTS", errorData["code"])
}

func TestUpdateCoupon_CodeIsImmutable(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	admin := models.User{Name: "Admin", Email: "uadmin@example.com", PasswordHash: "h", Role: models.RoleAdmin}
	db.Create(&admin)

	now := time.Now()
	coupon := models.Coupon{
		Code:          "KEEPME",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 50,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(24 * time.Hour),
		IsActive:      true,
	}
	db.Create(&coupon)

	router := setupTestRouter()
	router.PUT("/coupons/:id",
		mockAuthMiddleware(admin.ID, admin.Email, admin.Role),
		UpdateCoupon,
	)

	body, _ := json.Marshal(map[string]interface{}{
		"code":           "CHANGED",
		"discount_type":  "fixed",
		"discount_value": 75,
		"valid_from":     now.Format(time.RFC3339),
		"valid_until":    now.Add(48 * time.Hour).Format(time.RFC3339),
	})
	req, _ := http.NewRequest(http.MethodPut, "/coupons/"+itoa(coupon.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Coupon
	db.First(&updated, coupon.ID)
	assert.Equal(t, "KEEPME", updated.Code, "Coupon code must not change on update")
	assert.Equal(t, float64(75), updated.DiscountValue)
}

func TestDeleteCoupon(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	admin := models.User{Name: "Admin", Email: "dadmin@example.com", PasswordHash: "h", Role: models.RoleAdmin}
	db.Create(&admin)

	now := time.Now()
	coupon := models.Coupon{
		Code:          "DELETEME",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 50,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(24 * time.Hour),
		IsActive:      true,
	}
	db.Create(&coupon)

	router := setupTestRouter()
	router.DELETE("/coupons/:id",
		mockAuthMiddleware(admin.ID, admin.Email, admin.Role),
		DeleteCoupon,
	)

	req, _ := http.NewRequest(http.MethodDelete, "/coupons/"+itoa(coupon.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Soft-deleted: invisible to normal queries, still present unscoped
	var found models.Coupon
	assert.Error(t, db.First(&found, coupon.ID).Error)
	assert.NoError(t, db.Unscoped().First(&found, coupon.ID).Error)
}
