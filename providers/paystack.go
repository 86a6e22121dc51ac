package providers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const defaultPaystackBaseURL = "https://api.paystack.co"

// paystackRefPrefix marks references issued by this adapter so the router can
// classify them by shape alone.
const paystackRefPrefix = "PSK_"

// PaystackProvider implements PaymentProvider for the card and bank-transfer
// rails via the Paystack transaction API.
type PaystackProvider struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewPaystackProvider creates a PaystackProvider. baseURL may be empty, in
// which case the live API endpoint is used.
func NewPaystackProvider(secretKey, baseURL string) *PaystackProvider {
	if baseURL == "" {
		baseURL = defaultPaystackBaseURL
	}
	return &PaystackProvider{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (p *PaystackProvider) Kind() ProviderKind { return ProviderPaystack }

// Matches reports whether the reference carries the Paystack prefix.
func (p *PaystackProvider) Matches(reference string) bool {
	return strings.HasPrefix(reference, paystackRefPrefix)
}

// ---- Paystack API request/response structs ----

type paystackInitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // kobo
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
	Metadata    struct {
		OrderLabel string `json:"order_label,omitempty"`
	} `json:"metadata,omitempty"`
}

type paystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status          string  `json:"status"`
		Reference       string  `json:"reference"`
		Amount          int64   `json:"amount"`
		Currency        string  `json:"currency"`
		Channel         string  `json:"channel"`
		GatewayResponse string  `json:"gateway_response"`
		PaidAt          *string `json:"paid_at"`
	} `json:"data"`
}

// Initiate creates a Paystack transaction and returns the hosted checkout
// URL. Amount is converted from major units to kobo.
func (p *PaystackProvider) Initiate(ctx context.Context, params InitiateParams) (*PaymentIntent, error) {
	reference, err := newPaystackReference()
	if err != nil {
		return nil, fmt.Errorf("paystack reference: %w", err)
	}

	reqBody := paystackInitializeRequest{
		Email:       params.Email,
		Amount:      int64(math.Round(params.Amount * 100)),
		Currency:    params.Currency,
		Reference:   reference,
		CallbackURL: params.CallbackURL,
	}
	reqBody.Metadata.OrderLabel = params.OrderLabel

	var resp paystackInitializeResponse
	if err := p.doRequest(ctx, http.MethodPost, "/transaction/initialize", reqBody, &resp); err != nil {
		return nil, err
	}
	if !resp.Status || resp.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: paystack initialize: %s", ErrProviderUnavailable, resp.Message)
	}

	// The locally issued reference is what the order row and the router key
	// on; never trust the gateway's echo of it.
	return &PaymentIntent{
		PaymentURL:       resp.Data.AuthorizationURL,
		Reference:        reference,
		RequiresRedirect: true,
	}, nil
}

// Verify fetches the transaction by reference and normalizes the gateway
// status.
func (p *PaystackProvider) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	var resp paystackVerifyResponse
	path := "/transaction/verify/" + reference
	if err := p.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: paystack verify: %s", ErrProviderUnavailable, resp.Message)
	}

	result := &VerificationResult{
		Reference: reference,
		Metadata: map[string]string{
			"channel":          resp.Data.Channel,
			"gateway_response": resp.Data.GatewayResponse,
			"currency":         resp.Data.Currency,
		},
	}

	switch resp.Data.Status {
	case "success":
		result.Status = StatusSuccess
	case "failed", "abandoned", "reversed":
		result.Status = StatusFailed
	default:
		// ongoing, queued, pending and anything unknown
		result.Status = StatusPending
	}
	return result, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header: an
// HMAC-SHA512 of the raw body keyed with the secret key.
func (p *PaystackProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}

func (p *PaystackProvider) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("paystack marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paystack build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: paystack returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: paystack returned %d: %s", ErrProviderUnavailable, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: paystack decode response: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func newPaystackReference() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return paystackRefPrefix + hex.EncodeToString(buf), nil
}
