package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
	"github.com/ikonicity-airban/geek-creations-sub001/providers"
	"github.com/ikonicity-airban/geek-creations-sub001/repository"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// OrderEventPublisher publishes order lifecycle events. Implementations are
// best-effort; a publish failure never fails the request.
type OrderEventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// CheckoutService orchestrates one checkout attempt: validate the request,
// resolve variants, stage the draft order, initiate payment and persist the
// pending order and transaction records.
type CheckoutService struct {
	variants     repository.VariantRepository
	orders       repository.OrderRepository
	transactions repository.TransactionRepository
	staging      OrderStagingClient
	card         providers.PaymentProvider
	crypto       providers.PaymentProvider
	pricing      Pricing
	currency     string
	callbackURL  string
	events       OrderEventPublisher
	logger       *zap.Logger
}

// NewCheckoutService creates a CheckoutService. events may be nil.
func NewCheckoutService(
	variants repository.VariantRepository,
	orders repository.OrderRepository,
	transactions repository.TransactionRepository,
	staging OrderStagingClient,
	card providers.PaymentProvider,
	crypto providers.PaymentProvider,
	pricing Pricing,
	currency string,
	callbackURL string,
	events OrderEventPublisher,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		variants:     variants,
		orders:       orders,
		transactions: transactions,
		staging:      staging,
		card:         card,
		crypto:       crypto,
		pricing:      pricing,
		currency:     currency,
		callbackURL:  callbackURL,
		events:       events,
		logger:       logger,
	}
}

type resolvedItem struct {
	item             models.CartItem
	shopifyVariantID int64
}

// Checkout runs one checkout attempt. Each call is a single attempt; no state
// is retried across calls.
func (s *CheckoutService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	if svcErr := validateCheckoutRequest(req); svcErr != nil {
		return nil, svcErr
	}

	resolved, svcErr := s.resolveLineItems(ctx, req.CartItems)
	if svcErr != nil {
		return nil, svcErr
	}

	items := make([]models.CartItem, 0, len(resolved))
	lineItems := make([]DraftOrderLineItem, 0, len(resolved))
	for _, r := range resolved {
		items = append(items, r.item)
		lineItems = append(lineItems, DraftOrderLineItem{
			VariantID: r.shopifyVariantID,
			Quantity:  r.item.Quantity,
		})
	}

	totals := s.pricing.Quote(items)

	draft, err := s.staging.CreateDraftOrder(ctx, &DraftOrderRequest{
		Email:           req.Email,
		LineItems:       lineItems,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Note:            fmt.Sprintf("Paid online via %s", req.PaymentMethod),
	})
	if err != nil {
		s.logger.Error("Draft order creation failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to create order"}
	}

	intent, svcErr := s.initiatePayment(ctx, req, draft, totals)
	if svcErr != nil {
		// The draft order stays pending and is never auto-promoted, so a
		// payment initiation failure is safe to surface as-is.
		return nil, svcErr
	}

	// The id is issued here rather than by the database so the transaction
	// row and the response never carry a zero id if the insert fails.
	order := &models.Order{
		ID:               uuid.New(),
		OrderNumber:      draft.Name,
		CustomerEmail:    req.Email,
		DraftOrderID:     draft.ID,
		Subtotal:         totals.Subtotal,
		Tax:              totals.Tax,
		Shipping:         totals.Shipping,
		Total:            totals.Total,
		Currency:         s.currency,
		PaymentStatus:    models.PaymentStatusPending,
		PaymentProvider:  string(s.providerFor(req.PaymentMethod).Kind()),
		PaymentReference: intent.Reference,
		Status:           models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		// Payment has been initiated; settlement depends on this row. Log
		// loudly but keep the response usable so the payer is not stranded.
		s.logger.Error("Failed to persist order record",
			zap.String("payment_reference", intent.Reference),
			zap.Int64("draft_order_id", draft.ID),
			zap.Error(err),
		)
	}

	txn := &models.PaymentTransaction{
		OrderID:       order.ID,
		PaymentMethod: req.PaymentMethod,
		Provider:      order.PaymentProvider,
		Reference:     intent.Reference,
		Amount:        totals.Total,
		Currency:      s.paymentCurrency(req),
		Status:        models.TransactionStatusPending,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		s.logger.Error("Failed to log payment transaction",
			zap.String("payment_reference", intent.Reference),
			zap.Error(err),
		)
	}

	s.publishEvent(models.OrderEvent{
		Type:             "order_created",
		OrderID:          order.ID.String(),
		OrderNumber:      order.OrderNumber,
		PaymentReference: intent.Reference,
		Provider:         order.PaymentProvider,
		Amount:           totals.Total,
		Currency:         txn.Currency,
		Timestamp:        time.Now().UTC(),
	})

	s.logger.Info("Checkout completed",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_reference", intent.Reference),
		zap.String("payment_method", req.PaymentMethod),
		zap.Float64("total", totals.Total),
	)

	paymentURL := intent.PaymentURL
	return &models.CheckoutResponse{
		Success:          true,
		OrderID:          order.ID.String(),
		OrderNumber:      order.OrderNumber,
		PaymentURL:       &paymentURL,
		PaymentReference: intent.Reference,
		RequiresRedirect: intent.RequiresRedirect,
	}, nil
}

func validateCheckoutRequest(req *models.CheckoutRequest) *ServiceError {
	if req.Email == "" || req.ShippingAddress == nil || len(req.CartItems) == 0 {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "email, shipping_address and cart_items are required"}
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodBankTransfer, models.PaymentMethodCrypto:
	default:
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "unsupported payment_method"}
	}
	return nil
}

// resolveLineItems maps internal variant keys to Shopify variant IDs.
// Unresolvable items are dropped with a warning; losing all of them fails the
// checkout before any external call is made.
func (s *CheckoutService) resolveLineItems(ctx context.Context, items []models.CartItem) ([]resolvedItem, *ServiceError) {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.VariantID)
	}

	variants, err := s.variants.FindActiveByKeys(ctx, keys)
	if err != nil {
		s.logger.Error("Variant lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to resolve cart items"}
	}

	byKey := make(map[string]models.ProductVariant, len(variants))
	for _, v := range variants {
		byKey[v.VariantKey] = v
	}

	resolved := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		variant, ok := byKey[item.VariantID]
		if !ok {
			s.logger.Warn("Dropping unresolvable cart item",
				zap.String("variant_id", item.VariantID),
				zap.String("sku", item.SKU),
			)
			continue
		}
		item.Quantity = clampQuantity(item.Quantity, variant.MaxQuantity)
		resolved = append(resolved, resolvedItem{item: item, shopifyVariantID: variant.ShopifyVariantID})
	}

	if len(resolved) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "No valid line items in cart"}
	}
	return resolved, nil
}

func (s *CheckoutService) initiatePayment(ctx context.Context, req *models.CheckoutRequest, draft *DraftOrder, totals Totals) (*providers.PaymentIntent, *ServiceError) {
	provider := s.providerFor(req.PaymentMethod)

	intent, err := provider.Initiate(ctx, providers.InitiateParams{
		Email:       req.Email,
		Amount:      totals.Total,
		Currency:    s.paymentCurrency(req),
		OrderLabel:  "Order " + draft.Name,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		s.logger.Error("Payment initiation failed",
			zap.String("provider", string(provider.Kind())),
			zap.Int64("draft_order_id", draft.ID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to initiate payment"}
	}
	return intent, nil
}

func (s *CheckoutService) providerFor(method string) providers.PaymentProvider {
	if method == models.PaymentMethodCrypto {
		return s.crypto
	}
	return s.card
}

func (s *CheckoutService) paymentCurrency(req *models.CheckoutRequest) string {
	if req.PaymentMethod == models.PaymentMethodCrypto {
		if cc := strings.ToUpper(req.CryptoCurrency); cc != "" {
			return cc
		}
		return "USDC"
	}
	return s.currency
}

func (s *CheckoutService) publishEvent(event models.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

func clampQuantity(qty, max int) int {
	if qty < 1 {
		return 1
	}
	if max > 0 && qty > max {
		return max
	}
	return qty
}
