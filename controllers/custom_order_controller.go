package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
)

// CreateCustomOrder handles POST /api/v1/custom-orders - submits a
// made-to-order request. Open to guests; an optional reference image is
// uploaded through the image service.
func CreateCustomOrder(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	description := c.PostForm("description")
	if name == "" || email == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "name, email and description are required",
			},
		})
		return
	}

	customOrder := models.CustomOrder{
		Name:        name,
		Email:       email,
		Phone:       c.PostForm("phone"),
		Description: description,
		Status:      models.CustomOrderStatusPending,
	}

	if budgetStr := c.PostForm("budget"); budgetStr != "" {
		budget, err := strconv.ParseFloat(budgetStr, 64)
		if err != nil || budget < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "budget must be a non-negative number",
				},
			})
			return
		}
		customOrder.Budget = budget
	}

	if fileHeader, err := c.FormFile("reference_image"); err == nil {
		imageService := services.GetImageService()
		if imageService == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STORAGE_UNAVAILABLE",
					"message": "Image hosting is not configured",
				},
			})
			return
		}

		key, err := imageService.UploadImage(fileHeader, "custom-orders")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		customOrder.ReferenceImage = key
	}

	db := config.GetDB()
	if err := db.Create(&customOrder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to submit custom order request",
			},
		})
		return
	}

	services.NotifyAsync(func(n services.Notifier) {
		n.CustomOrderReceived(&customOrder)
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customOrder,
	})
}

// ListCustomOrders handles GET /api/v1/admin/custom-orders - lists all
// custom order requests, optionally filtered by status
func ListCustomOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var customOrders []models.CustomOrder
	if err := query.Find(&customOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch custom orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customOrders,
	})
}

// UpdateCustomOrderRequest represents the request body for admin custom
// order updates
type UpdateCustomOrderRequest struct {
	Status      string   `json:"status"`
	AdminNotes  string   `json:"admin_notes"`
	QuotedPrice *float64 `json:"quoted_price"`
}

// UpdateCustomOrder handles PUT /api/v1/admin/custom-orders/:id - moves
// a custom order request through review/quote states
func UpdateCustomOrder(c *gin.Context) {
	var req UpdateCustomOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Status != "" && !models.ValidCustomOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown custom order status: " + req.Status,
			},
		})
		return
	}

	db := config.GetDB()
	var customOrder models.CustomOrder
	if err := db.First(&customOrder, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOM_ORDER_NOT_FOUND",
				"message": "Custom order request not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if req.QuotedPrice != nil {
		updates["quoted_price"] = *req.QuotedPrice
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "No updatable fields supplied",
			},
		})
		return
	}

	if err := db.Model(&customOrder).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update custom order request",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customOrder,
	})
}
