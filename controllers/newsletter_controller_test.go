package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
)

func postNewsletter(router http.Handler, path, email string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]interface{}{"email": email})
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubscribeNewsletter(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	router := setupTestRouter()
	router.POST("/newsletter/subscribe", SubscribeNewsletter)
	router.POST("/newsletter/unsubscribe", UnsubscribeNewsletter)

	// Subscribe
	w := postNewsletter(router, "/newsletter/subscribe", "Fan@Example.com")
	assert.Equal(t, http.StatusOK, w.Code)

	var subscriber models.NewsletterSubscriber
	assert.NoError(t, db.Where("email = ?", "fan@example.com").First(&subscriber).Error)
	assert.True(t, subscriber.IsActive)

	// Subscribing again is not an error and leaves one row
	w = postNewsletter(router, "/newsletter/subscribe", "fan@example.com")
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.NewsletterSubscriber{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Unsubscribe deactivates but keeps the row
	w = postNewsletter(router, "/newsletter/unsubscribe", "fan@example.com")
	assert.Equal(t, http.StatusOK, w.Code)

	db.Where("email = ?", "fan@example.com").First(&subscriber)
	assert.False(t, subscriber.IsActive)

	// Resubscribing reactivates the same row
	w = postNewsletter(router, "/newsletter/subscribe", "fan@example.com")
	assert.Equal(t, http.StatusOK, w.Code)

	db.Where("email = ?", "fan@example.com").First(&subscriber)
	assert.True(t, subscriber.IsActive)

	db.Model(&models.NewsletterSubscriber{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUnsubscribeNewsletter_UnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	router := setupTestRouter()
	router.POST("/newsletter/unsubscribe", UnsubscribeNewsletter)

	w := postNewsletter(router, "/newsletter/unsubscribe", "nobody@example.com")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "SUBSCRIBER_NOT_FOUND", errorData["code"])
}

func TestSubscribeNewsletter_InvalidEmail(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	router := setupTestRouter()
	router.POST("/newsletter/subscribe", SubscribeNewsletter)

	w := postNewsletter(router, "/newsletter/subscribe", "not-an-email")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
