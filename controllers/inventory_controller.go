package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/middleware"
	"github.com/kalakriti-studio/kalakriti-api/models"
)

// AdjustInventoryRequest represents the request body for inventory
// changes. Either an absolute stock value or a signed adjustment must be
// supplied, not both.
type AdjustInventoryRequest struct {
	Stock             *int   `json:"stock"`
	Adjustment        *int   `json:"adjustment"`
	Reason            string `json:"reason"`
	LowStockThreshold *int   `json:"low_stock_threshold"`
}

// AdjustInventory handles PATCH /api/v1/admin/inventory/:id - sets or
// adjusts a product's stock. Adjustments are applied as a single atomic
// UPDATE with the zero floor computed in-store, so two admins adjusting
// concurrently cannot lose each other's change. Checkout never touches
// stock; all changes flow through here and land in the adjustment ledger.
func AdjustInventory(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req AdjustInventoryRequest
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

	if req.Stock == nil && req.Adjustment == nil && req.LowStockThreshold == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "One of stock, adjustment or low_stock_threshold is required",
			},
		})
		return
	}

	if req.Stock != nil && req.Adjustment != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Supply either stock or adjustment, not both",
			},
		})
		return
	}

	if req.Stock != nil && *req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Stock cannot be negative",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	previousStock := product.Stock
	newStock := previousStock

	err = db.Transaction(func(tx *gorm.DB) error {
		switch {
		case req.Adjustment != nil:
			// Add-and-clamp happens inside the UPDATE so concurrent
			// adjustments serialize at the row instead of racing a
			// read-modify-write in application code
			delta := *req.Adjustment
			if err := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("stock", gorm.Expr(
					"CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta,
				)).Error; err != nil {
				return err
			}
		case req.Stock != nil:
			if err := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("stock", *req.Stock).Error; err != nil {
				return err
			}
		}

		if req.LowStockThreshold != nil {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("low_stock_threshold", *req.LowStockThreshold).Error; err != nil {
				return err
			}
		}

		// Re-read inside the transaction for the applied value
		if err := tx.First(&product, product.ID).Error; err != nil {
			return err
		}
		newStock = product.Stock

		if req.Adjustment != nil || req.Stock != nil {
			ledgerEntry := models.InventoryAdjustment{
				ProductID:     product.ID,
				AdminID:       adminID,
				Delta:         newStock - previousStock,
				PreviousStock: previousStock,
				NewStock:      newStock,
				Reason:        req.Reason,
			}
			if err := tx.Create(&ledgerEntry).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("failed to adjust inventory for product %d: %v", product.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to adjust inventory",
			},
		})
		return
	}

	if product.IsLowStock() {
		log.Printf("low stock warning: product %q has %d units (threshold %d)",
			product.Name, product.Stock, product.LowStockThreshold)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"product":        product,
			"previous_stock": previousStock,
			"new_stock":      newStock,
		},
	})
}

// ListLowStockProducts handles GET /api/v1/admin/inventory/low-stock -
// lists products at or below their low-stock threshold
func ListLowStockProducts(c *gin.Context) {
	db := config.GetDB()

	var products []models.Product
	if err := db.Where("stock <= low_stock_threshold").
		Order("stock ASC").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}
