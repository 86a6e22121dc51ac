package providers

import (
	"context"
	"errors"
)

// ProviderKind identifies a payment rail.
type ProviderKind string

const (
	ProviderPaystack  ProviderKind = "paystack"
	ProviderSolanaPay ProviderKind = "solana_pay"
)

// PaymentStatus is the normalized verification status across providers.
type PaymentStatus string

const (
	StatusSuccess PaymentStatus = "success"
	StatusPending PaymentStatus = "pending"
	StatusFailed  PaymentStatus = "failed"
)

// ErrProviderUnavailable means the upstream provider could not be reached or
// returned an unusable response. The caller must not assume a reference was
// allocated, and verification may be retried by the operator or the provider.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// ErrUnrecognizedReference means no registered provider claims the reference.
// This is permanent; it indicates a malformed or forged callback.
var ErrUnrecognizedReference = errors.New("unrecognized payment reference")

// InitiateParams carries everything an adapter needs to start a payment.
// Amount is always in major currency units; adapters convert to their native
// unit themselves.
type InitiateParams struct {
	Email       string
	Amount      float64
	Currency    string
	OrderLabel  string
	CallbackURL string
}

// PaymentIntent is the result of a successful initiation.
type PaymentIntent struct {
	PaymentURL       string
	Reference        string
	RequiresRedirect bool
}

// VerificationResult is the normalized outcome of verifying a reference.
type VerificationResult struct {
	Status    PaymentStatus
	Reference string
	Metadata  map[string]string
}

// PaymentProvider is implemented by each payment rail. References issued by
// one provider must be lexically distinguishable from every other provider's
// so the router can classify them without a side channel.
type PaymentProvider interface {
	Kind() ProviderKind
	// Matches reports whether the reference was issued by this provider.
	Matches(reference string) bool
	Initiate(ctx context.Context, params InitiateParams) (*PaymentIntent, error)
	// Verify is idempotent; calling it twice with the same reference returns
	// the same status modulo upstream state changes.
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
}
