package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ikonicity-airban/geek-creations-sub001/controllers"
	"github.com/ikonicity-airban/geek-creations-sub001/models"
	"github.com/ikonicity-airban/geek-creations-sub001/providers"
	"github.com/ikonicity-airban/geek-creations-sub001/services"
)

type fakeVariantRepo struct {
	variants []models.ProductVariant
}

func (f *fakeVariantRepo) FindActiveByKeys(_ context.Context, keys []string) ([]models.ProductVariant, error) {
	byKey := map[string]models.ProductVariant{}
	for _, v := range f.variants {
		byKey[v.VariantKey] = v
	}
	var out []models.ProductVariant
	for _, k := range keys {
		if v, ok := byKey[k]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func newCheckoutTestRouter(cardIntent *providers.PaymentIntent) *gin.Engine {
	gin.SetMode(gin.TestMode)
	variants := &fakeVariantRepo{
		variants: []models.ProductVariant{
			{VariantKey: "tee-black-m", ShopifyVariantID: 111, MaxQuantity: 5},
		},
	}
	card := &fakeProvider{intent: cardIntent}
	crypto := &fakeProvider{}
	svc := services.NewCheckoutService(
		variants, &fakeOrderRepo{}, &fakeTxnRepo{}, &fakeStaging{},
		card, crypto,
		services.Pricing{TaxRate: 0.075, FreeShippingThreshold: 50000, FlatShippingFee: 2500},
		"NGN",
		"http://localhost:8080/payment/verify",
		nil,
		zap.NewNop(),
	)
	cc := controllers.NewCheckoutController(svc)

	r := gin.New()
	r.POST("/checkout", cc.Checkout)
	return r
}

func checkoutBody() string {
	return `{
		"email": "a@x.com",
		"shipping_address": {"first_name": "Ada", "address1": "1 Marina Rd", "city": "Lagos", "country": "NG"},
		"payment_method": "card",
		"cart_items": [{"variant_id": "tee-black-m", "unit_price": 20000, "quantity": 1}]
	}`
}

func TestCheckoutEndpoint_Success(t *testing.T) {
	paymentURL := "https://checkout.paystack.com/x"
	r := newCheckoutTestRouter(&providers.PaymentIntent{
		PaymentURL:       paymentURL,
		Reference:        "PSK_abc",
		RequiresRedirect: true,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CheckoutResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "#D42", resp.OrderNumber)
	assert.Equal(t, "PSK_abc", resp.PaymentReference)
	assert.NotNil(t, resp.PaymentURL)
	assert.Equal(t, paymentURL, *resp.PaymentURL)
	assert.True(t, resp.RequiresRedirect)
}

func TestCheckoutEndpoint_MalformedBody(t *testing.T) {
	r := newCheckoutTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"email": `))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request")
}

func TestCheckoutEndpoint_ValidationError(t *testing.T) {
	r := newCheckoutTestRouter(nil)

	body := `{"email": "a@x.com", "payment_method": "card", "cart_items": [{"variant_id": "tee-black-m"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// missing shipping address
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpoint_PaymentInitFailure(t *testing.T) {
	// card provider has no intent configured, so Initiate fails
	r := newCheckoutTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
