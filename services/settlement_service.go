package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
	"github.com/ikonicity-airban/geek-creations-sub001/providers"
	"github.com/ikonicity-airban/geek-creations-sub001/repository"
)

// Settlement error codes surfaced on the failure redirect.
const (
	CodeMissingPaymentReference   = "missing_payment_reference"
	CodePaymentVerificationFailed = "payment_verification_failed"
	CodePaymentNotVerified        = "payment_not_verified"
	CodeOrderNotFound             = "order_not_found"
	CodeDraftOrderMissing         = "draft_order_missing"
	CodeOrderCompletionFailed     = "order_completion_failed"
	CodeUnexpectedError           = "unexpected_error"
)

// SNSPublisher matches the pkg/aws publisher without importing it here.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// SettlementService reconciles an asynchronous payment confirmation with the
// pending order it belongs to and promotes the draft order exactly once.
type SettlementService struct {
	router       *providers.Router
	orders       repository.OrderRepository
	transactions repository.TransactionRepository
	staging      OrderStagingClient
	sns          SNSPublisher
	snsTopicArn  string
	logger       *zap.Logger
}

// NewSettlementService creates a SettlementService. sns may be nil.
func NewSettlementService(
	router *providers.Router,
	orders repository.OrderRepository,
	transactions repository.TransactionRepository,
	staging OrderStagingClient,
	sns SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		router:       router,
		orders:       orders,
		transactions: transactions,
		staging:      staging,
		sns:          sns,
		snsTopicArn:  snsTopicArn,
		logger:       logger,
	}
}

// Outcome of one settlement attempt.
type Outcome struct {
	// Code is empty on success, otherwise one of the Code* constants.
	Code        string
	Order       *models.Order
	AlreadyPaid bool
	// Retryable marks failures where settlement was neither completed nor
	// decided: the provider should redeliver and the payer may replay the
	// redirect.
	Retryable bool
}

// Settle verifies the reference with its provider, locates the pending order
// and promotes the draft order. It is safe to call concurrently and
// repeatedly for the same reference: at most one call performs the promotion.
func (s *SettlementService) Settle(ctx context.Context, reference string) *Outcome {
	verification, err := s.router.Verify(ctx, reference)
	if err != nil {
		if errors.Is(err, providers.ErrUnrecognizedReference) {
			// Forged or malformed callback; permanent, no DB lookup.
			s.logger.Warn("Unrecognized payment reference", zap.String("reference", reference))
			return &Outcome{Code: CodePaymentVerificationFailed}
		}
		if errors.Is(err, providers.ErrProviderUnavailable) {
			// Verification was never attempted, so nothing is decided yet.
			s.logger.Error("Payment verification unavailable", zap.String("reference", reference), zap.Error(err))
			return &Outcome{Code: CodePaymentVerificationFailed, Retryable: true}
		}
		s.logger.Error("Payment verification failed", zap.String("reference", reference), zap.Error(err))
		return &Outcome{Code: CodePaymentVerificationFailed}
	}
	if verification.Status != providers.StatusSuccess {
		s.logger.Info("Payment not confirmed",
			zap.String("reference", reference),
			zap.String("status", string(verification.Status)),
		)
		return &Outcome{Code: CodePaymentNotVerified}
	}

	order, err := s.orders.FindByPaymentReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("No order for verified payment reference", zap.String("reference", reference))
			return &Outcome{Code: CodeOrderNotFound}
		}
		s.logger.Error("Order lookup failed", zap.String("reference", reference), zap.Error(err))
		return &Outcome{Code: CodeUnexpectedError}
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return &Outcome{Order: order, AlreadyPaid: true}
	}

	claimed, err := s.orders.ClaimForSettlement(ctx, reference)
	if err != nil {
		s.logger.Error("Failed to claim order for settlement", zap.String("reference", reference), zap.Error(err))
		return &Outcome{Code: CodeUnexpectedError}
	}
	if !claimed {
		// Another attempt holds or held the claim. Re-read to decide what the
		// payer should see.
		current, err := s.orders.FindByPaymentReference(ctx, reference)
		if err != nil {
			return &Outcome{Code: CodeUnexpectedError}
		}
		switch {
		case current.PaymentStatus == models.PaymentStatusPaid:
			return &Outcome{Order: current, AlreadyPaid: true}
		case current.Status == models.OrderStatusNeedsReview:
			return &Outcome{Code: CodeOrderCompletionFailed, Order: current}
		default:
			// A fresh claim is held by a concurrent attempt that has not
			// recorded an outcome yet. Stale claims are taken over on the
			// next attempt, so the caller should retry rather than report
			// the payment as settled.
			s.logger.Info("Settlement claim held elsewhere", zap.String("reference", reference))
			return &Outcome{Code: CodePaymentNotVerified, Order: current, Retryable: true}
		}
	}

	if order.DraftOrderID == 0 {
		s.logger.Error("Verified payment has no draft order", zap.String("reference", reference))
		if err := s.orders.MarkNeedsReview(ctx, reference, "payment verified but no draft order recorded"); err != nil {
			s.logger.Error("Failed to flag order for review", zap.String("reference", reference), zap.Error(err))
		}
		s.publishEvent(ctx, "order_needs_review", order)
		return &Outcome{Code: CodeDraftOrderMissing, Order: order}
	}

	finalized, err := s.staging.CompleteDraftOrder(ctx, order.DraftOrderID)
	if err != nil {
		// Money has moved but the commerce-side order was not created. This
		// is recorded durably for operator review and never retried here.
		s.logger.Error("Draft order promotion failed after confirmed payment",
			zap.String("reference", reference),
			zap.Int64("draft_order_id", order.DraftOrderID),
			zap.Error(err),
		)
		if dbErr := s.orders.MarkNeedsReview(ctx, reference, "payment verified but order completion failed: "+err.Error()); dbErr != nil {
			s.logger.Error("Failed to flag order for review", zap.String("reference", reference), zap.Error(dbErr))
		}
		s.publishEvent(ctx, "order_needs_review", order)
		return &Outcome{Code: CodeOrderCompletionFailed, Order: order}
	}

	now := time.Now()
	if err := s.orders.MarkPaid(ctx, reference, finalized.OrderID, finalized.OrderName, now); err != nil {
		s.logger.Error("Failed to mark order paid", zap.String("reference", reference), zap.Error(err))
		return &Outcome{Code: CodeUnexpectedError}
	}

	metadata := verificationMetadata(verification)
	if err := s.transactions.UpdateStatusByReference(ctx, reference, models.TransactionStatusSuccess, metadata); err != nil {
		s.logger.Warn("Failed to update payment transaction", zap.String("reference", reference), zap.Error(err))
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.Status = models.OrderStatusPaid
	order.ShopifyOrderID = &finalized.OrderID
	order.ShopifyOrderName = &finalized.OrderName
	order.PaidAt = &now

	s.logger.Info("Order settled",
		zap.String("reference", reference),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("shopify_order_id", finalized.OrderID),
	)

	s.publishEvent(ctx, "order_paid", order)
	return &Outcome{Order: order}
}

func (s *SettlementService) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.sns == nil || s.snsTopicArn == "" {
		return
	}
	payload, _ := json.Marshal(models.OrderEvent{
		Type:             eventType,
		OrderID:          order.ID.String(),
		OrderNumber:      order.OrderNumber,
		PaymentReference: order.PaymentReference,
		Provider:         order.PaymentProvider,
		Amount:           order.Total,
		Currency:         order.Currency,
		Timestamp:        time.Now().UTC(),
	})
	if err := s.sns.Publish(ctx, s.snsTopicArn, payload); err != nil {
		s.logger.Warn("Failed to publish settlement event",
			zap.String("type", eventType),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
}

func verificationMetadata(v *providers.VerificationResult) *string {
	if len(v.Metadata) == 0 {
		return nil
	}
	raw, err := json.Marshal(v.Metadata)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
