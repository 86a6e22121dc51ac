package models

import "time"

// Payment methods accepted by POST /checkout.
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCrypto       = "crypto"
)

// CartItem is one line of the browser-owned cart. VariantID is the internal
// catalog key, not a Shopify ID.
type CartItem struct {
	VariantID    string  `json:"variant_id" binding:"required"`
	ProductID    string  `json:"product_id"`
	ProductTitle string  `json:"product_title"`
	VariantTitle string  `json:"variant_title"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	Image        string  `json:"image"`
	SKU          string  `json:"sku"`
	MaxQuantity  int     `json:"max_quantity"`
}

// Address mirrors the Shopify address shape.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone,omitempty"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	Email           string     `json:"email"`
	ShippingAddress *Address   `json:"shipping_address"`
	BillingAddress  *Address   `json:"billing_address,omitempty"`
	PaymentMethod   string     `json:"payment_method"`
	CryptoCurrency  string     `json:"crypto_currency,omitempty"`
	CartItems       []CartItem `json:"cart_items"`
}

// CheckoutResponse is returned on a successful checkout.
type CheckoutResponse struct {
	Success          bool    `json:"success"`
	OrderID          string  `json:"order_id"`
	OrderNumber      string  `json:"order_number"`
	PaymentURL       *string `json:"payment_url"`
	PaymentReference string  `json:"payment_reference"`
	RequiresRedirect bool    `json:"requires_redirect"`
}

// OrderEvent is the message published to Kafka/SNS when an order changes
// state (order_created, order_paid, order_needs_review).
type OrderEvent struct {
	Type             string    `json:"type"`
	OrderID          string    `json:"order_id"`
	OrderNumber      string    `json:"order_number"`
	PaymentReference string    `json:"payment_reference"`
	Provider         string    `json:"provider"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Timestamp        time.Time `json:"timestamp"`
}
