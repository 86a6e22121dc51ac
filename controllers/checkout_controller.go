package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
	"github.com/ikonicity-airban/geek-creations-sub001/services"
)

// CheckoutController handles POST /checkout.
type CheckoutController struct {
	checkoutService *services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(svc *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: svc}
}

// Checkout handles POST /checkout
func (cc *CheckoutController) Checkout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := cc.checkoutService.Checkout(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
