package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order payment_status values. payment_status only moves forward:
// pending -> verified -> paid.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusPaid     = "paid"
)

// Order status values.
const (
	OrderStatusPending     = "pending"
	OrderStatusPaid        = "paid"
	OrderStatusNeedsReview = "payment_verified_needs_review"
)

// PaymentTransaction status values.
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// Order is the internal order log, kept separately from the Shopify-side
// order. It is created at checkout time together with the draft order and is
// the only record mutated during settlement.
type Order struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber      string    `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerEmail    string    `gorm:"index;not null" json:"customer_email"`
	DraftOrderID     int64     `gorm:"index" json:"draft_order_id"`
	ShopifyOrderID   *int64    `json:"shopify_order_id,omitempty"`
	ShopifyOrderName *string   `json:"shopify_order_name,omitempty"`
	Subtotal         float64   `gorm:"not null" json:"subtotal"`
	Tax              float64   `gorm:"not null" json:"tax"`
	Shipping         float64   `gorm:"not null" json:"shipping"`
	Total            float64   `gorm:"not null" json:"total"`
	Currency         string    `gorm:"type:varchar(10);not null;default:'NGN'" json:"currency"`
	PaymentStatus    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentProvider  string    `gorm:"type:varchar(20)" json:"payment_provider"`
	PaymentReference string    `gorm:"uniqueIndex;not null" json:"payment_reference"`
	Status           string    `gorm:"type:varchar(40);not null;default:'pending'" json:"status"`
	Notes            string    `gorm:"type:text" json:"notes"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// PaymentTransaction records one payment attempt with a provider. The unique
// constraint on Reference is the idempotency anchor for settlement.
type PaymentTransaction struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	PaymentMethod string    `gorm:"type:varchar(20);not null" json:"payment_method"`
	Provider      string    `gorm:"type:varchar(20);not null" json:"provider"`
	Reference     string    `gorm:"uniqueIndex;not null" json:"reference"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"type:varchar(10);not null" json:"currency"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Metadata      *string   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductVariant maps an internal catalog variant key to its Shopify variant.
// Cart items carry the internal key only; the Shopify ID never crosses the
// browser boundary.
type ProductVariant struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VariantKey       string    `gorm:"uniqueIndex;not null" json:"variant_key"`
	ShopifyVariantID int64     `gorm:"not null" json:"shopify_variant_id"`
	SKU              string    `gorm:"index" json:"sku"`
	Price            float64   `gorm:"not null" json:"price"`
	MaxQuantity      int       `gorm:"not null;default:10" json:"max_quantity"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
