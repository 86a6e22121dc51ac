package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ikonicity-airban/geek-creations-sub001/providers"
	"github.com/ikonicity-airban/geek-creations-sub001/services"
)

// PaymentController handles the payment confirmation callbacks: the browser
// redirect on GET and the provider webhook on POST.
type PaymentController struct {
	settlement  *services.SettlementService
	paystack    *providers.PaystackProvider
	frontendURL string
	logger      *zap.Logger
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(settlement *services.SettlementService, paystack *providers.PaystackProvider, frontendURL string, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		settlement:  settlement,
		paystack:    paystack,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// VerifyPayment handles GET /payment/verify. It never renders a body; the
// payer is always redirected to the storefront success or failure page.
func (pc *PaymentController) VerifyPayment(ctx *gin.Context) {
	reference := extractReference(ctx)
	if reference == "" {
		pc.redirectFailure(ctx, services.CodeMissingPaymentReference)
		return
	}

	outcome := pc.settlement.Settle(ctx.Request.Context(), reference)
	if outcome.Code != "" {
		pc.redirectFailure(ctx, outcome.Code)
		return
	}

	q := url.Values{}
	q.Set("order_id", outcome.Order.ID.String())
	if outcome.Order.ShopifyOrderName != nil {
		q.Set("order_name", *outcome.Order.ShopifyOrderName)
	} else {
		q.Set("order_number", outcome.Order.OrderNumber)
	}
	q.Set("email", outcome.Order.CustomerEmail)
	if outcome.AlreadyPaid {
		q.Set("already_paid", "true")
	}
	ctx.Redirect(http.StatusFound, pc.frontendURL+"/checkout/success?"+q.Encode())
}

// paystackWebhookEvent is the subset of the webhook body we act on.
type paystackWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// PaystackWebhook handles POST /payment/verify. The body is untrusted until
// its signature checks out.
func (pc *PaymentController) PaystackWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	signature := ctx.GetHeader("x-paystack-signature")
	if !pc.paystack.VerifyWebhookSignature(payload, signature) {
		pc.logger.Warn("Paystack webhook signature verification failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event paystackWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	pc.logger.Info("Processing Paystack webhook", zap.String("event", event.Event))

	switch event.Event {
	case "charge.success":
		if event.Data.Reference == "" {
			break
		}
		outcome := pc.settlement.Settle(ctx.Request.Context(), event.Data.Reference)
		if outcome.Code != "" {
			if outcome.Retryable {
				// Nothing was decided; a non-2xx tells Paystack to redeliver.
				pc.logger.Warn("Webhook settlement deferred",
					zap.String("reference", event.Data.Reference),
					zap.String("code", outcome.Code),
				)
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "verification unavailable"})
				return
			}
			// Acknowledge permanent failures; they should not make the
			// provider retry forever.
			pc.logger.Warn("Webhook settlement did not complete",
				zap.String("reference", event.Data.Reference),
				zap.String("code", outcome.Code),
			)
		}
	default:
		pc.logger.Info("Unhandled webhook event type", zap.String("event", event.Event))
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "received"})
}

// extractReference pulls the provider reference from whichever query
// parameter is present; first present wins.
func extractReference(ctx *gin.Context) string {
	for _, key := range []string{"reference", "transaction_id", "tx_ref"} {
		if v := ctx.Query(key); v != "" {
			return v
		}
	}
	return ""
}

func (pc *PaymentController) redirectFailure(ctx *gin.Context, code string) {
	q := url.Values{}
	q.Set("error", code)
	ctx.Redirect(http.StatusFound, pc.frontendURL+"/checkout/failed?"+q.Encode())
}
