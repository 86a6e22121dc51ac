package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ikonicity-airban/geek-creations-sub001/controllers"
	"github.com/ikonicity-airban/geek-creations-sub001/middleware"
)

// RegisterRoutes sets up the checkout, payment-callback and admin routes.
func RegisterRoutes(
	r *gin.Engine,
	cc *controllers.CheckoutController,
	pc *controllers.PaymentController,
	ac *controllers.AdminController,
	adminToken string,
) {
	r.POST("/checkout", cc.Checkout)

	// Payment confirmation: browser redirect and provider webhook share a
	// path but not a handler.
	r.GET("/payment/verify", pc.VerifyPayment)
	r.POST("/payment/verify", pc.PaystackWebhook)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(adminToken))
	admin.GET("/orders/needs-review", ac.NeedsReview)
	admin.GET("/orders/:id", ac.GetOrder)
}
