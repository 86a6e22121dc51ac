package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ikonicity-airban/geek-creations-sub001/repository"
)

// AdminController exposes the operator views over the order log, most
// importantly the orders stuck in payment_verified_needs_review.
type AdminController struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewAdminController creates a new AdminController.
func NewAdminController(orders repository.OrderRepository, logger *zap.Logger) *AdminController {
	return &AdminController{orders: orders, logger: logger}
}

// NeedsReview handles GET /admin/orders/needs-review
func (ac *AdminController) NeedsReview(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := ac.orders.FindNeedsReview(ctx.Request.Context(), page, limit)
	if err != nil {
		ac.logger.Error("Failed to list needs-review orders", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta": gin.H{
			"page":         page,
			"limit":        limit,
			"total_orders": total,
			"total_pages":  totalPages,
			"has_more":     int64(page) < totalPages,
		},
	})
}

// GetOrder handles GET /admin/orders/:id
func (ac *AdminController) GetOrder(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := ac.orders.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		ac.logger.Error("Failed to fetch order", zap.String("id", id.String()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}
