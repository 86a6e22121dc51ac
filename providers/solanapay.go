package providers

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
)

// SolanaPayProvider implements PaymentProvider for the crypto rail using the
// Solana Pay transfer-request flow: a solana: URL is rendered client-side
// (usually as a QR code) and the transfer is tagged with a one-off reference
// account, which verification later looks up on chain.
type SolanaPayProvider struct {
	recipient  string // merchant wallet address
	rpcURL     string
	usdcMint   string
	label      string
	httpClient *http.Client
}

// NewSolanaPayProvider creates a SolanaPayProvider.
func NewSolanaPayProvider(recipient, rpcURL, usdcMint, label string) *SolanaPayProvider {
	return &SolanaPayProvider{
		recipient: recipient,
		rpcURL:    rpcURL,
		usdcMint:  usdcMint,
		label:     label,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (p *SolanaPayProvider) Kind() ProviderKind { return ProviderSolanaPay }

// Matches reports whether the reference looks like a base58-encoded 32-byte
// public key. Paystack references carry a prefix containing '_', which is not
// a base58 character, so the two shapes cannot collide.
func (p *SolanaPayProvider) Matches(reference string) bool {
	if len(reference) < 32 || len(reference) > 44 {
		return false
	}
	decoded, err := base58.Decode(reference)
	return err == nil && len(decoded) == ed25519.PublicKeySize
}

// Initiate builds the solana: payment URL. No upstream call is made; the
// reference is a freshly generated throwaway public key.
func (p *SolanaPayProvider) Initiate(ctx context.Context, params InitiateParams) (*PaymentIntent, error) {
	if p.recipient == "" {
		return nil, fmt.Errorf("%w: solana pay recipient not configured", ErrProviderUnavailable)
	}

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("solana pay reference: %w", err)
	}
	reference := base58.Encode(pub)

	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(params.Amount, 'f', -1, 64))
	q.Set("reference", reference)
	if p.label != "" {
		q.Set("label", p.label)
	}
	if params.OrderLabel != "" {
		q.Set("message", params.OrderLabel)
	}
	if params.Currency == "USDC" && p.usdcMint != "" {
		q.Set("spl-token", p.usdcMint)
	}

	return &PaymentIntent{
		PaymentURL:       "solana:" + p.recipient + "?" + q.Encode(),
		Reference:        reference,
		RequiresRedirect: true,
	}, nil
}

// ---- Solana JSON-RPC structs ----

type solanaRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type solanaSignature struct {
	Signature          string      `json:"signature"`
	ConfirmationStatus string      `json:"confirmationStatus"`
	Err                interface{} `json:"err"`
}

type solanaRPCResponse struct {
	Result []solanaSignature `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Verify looks the reference account up on chain. A finalized signature with
// no transaction error means the transfer landed.
func (p *SolanaPayProvider) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	rpcReq := solanaRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getSignaturesForAddress",
		Params: []interface{}{
			reference,
			map[string]interface{}{"limit": 1, "commitment": "finalized"},
		},
	}

	data, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("solana rpc marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.rpcURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("solana rpc build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: solana rpc returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var rpcResp solanaRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("%w: solana rpc decode: %v", ErrProviderUnavailable, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%w: solana rpc error %d: %s", ErrProviderUnavailable, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	result := &VerificationResult{Reference: reference, Metadata: map[string]string{}}

	if len(rpcResp.Result) == 0 {
		result.Status = StatusPending
		return result, nil
	}

	sig := rpcResp.Result[0]
	result.Metadata["signature"] = sig.Signature
	result.Metadata["confirmation_status"] = sig.ConfirmationStatus

	switch {
	case sig.Err != nil:
		result.Status = StatusFailed
	case sig.ConfirmationStatus == "finalized":
		result.Status = StatusSuccess
	default:
		result.Status = StatusPending
	}
	return result, nil
}
