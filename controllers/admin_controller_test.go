package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ikonicity-airban/geek-creations-sub001/controllers"
	"github.com/ikonicity-airban/geek-creations-sub001/middleware"
	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

const adminToken = "test-admin-token"

func newAdminTestRouter(orderRepo *fakeOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ac := controllers.NewAdminController(orderRepo, zap.NewNop())

	r := gin.New()
	admin := r.Group("/admin", middleware.AdminAuth(adminToken))
	admin.GET("/orders/needs-review", ac.NeedsReview)
	admin.GET("/orders/:id", ac.GetOrder)
	return r
}

func TestAdminAuth_RejectsMissingToken(t *testing.T) {
	r := newAdminTestRouter(&fakeOrderRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/needs-review", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_RejectsWrongToken(t *testing.T) {
	r := newAdminTestRouter(&fakeOrderRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/needs-review", nil)
	req.Header.Set("X-Admin-Token", "guess")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNeedsReview_ListsFlaggedOrders(t *testing.T) {
	order := settledOrder()
	order.Status = models.OrderStatusNeedsReview
	order.PaymentStatus = models.PaymentStatusVerified
	repo := &fakeOrderRepo{order: order}
	r := newAdminTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/needs-review", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"meta"`)
	assert.Contains(t, w.Body.String(), `"orders"`)
}

func TestGetOrder_NotFound(t *testing.T) {
	r := newAdminTestRouter(&fakeOrderRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/"+uuid.NewString(), nil)
	req.Header.Set("X-Admin-Token", adminToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	r := newAdminTestRouter(&fakeOrderRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/not-a-uuid", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_Found(t *testing.T) {
	order := settledOrder()
	r := newAdminTestRouter(&fakeOrderRepo{order: order})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/"+order.ID.String(), nil)
	req.Header.Set("X-Admin-Token", adminToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), order.PaymentReference)
}
