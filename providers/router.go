package providers

import (
	"context"
	"fmt"
)

type route struct {
	match    func(string) bool
	provider PaymentProvider
}

// Router classifies an opaque payment reference by shape and dispatches
// verification to the provider that issued it. Predicates are evaluated in
// registration order; no match is a permanent failure.
type Router struct {
	routes []route
}

// NewRouter builds a Router over the given providers, using each provider's
// own Matches predicate in argument order.
func NewRouter(providers ...PaymentProvider) *Router {
	r := &Router{}
	for _, p := range providers {
		r.Register(p.Matches, p)
	}
	return r
}

// Register appends a (predicate, provider) pair.
func (r *Router) Register(match func(string) bool, provider PaymentProvider) {
	r.routes = append(r.routes, route{match: match, provider: provider})
}

// Detect returns the provider that issued the reference, or
// ErrUnrecognizedReference when no predicate claims it.
func (r *Router) Detect(reference string) (PaymentProvider, error) {
	for _, rt := range r.routes {
		if rt.match(reference) {
			return rt.provider, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedReference, reference)
}

// Verify resolves the owning provider and delegates verification to it.
func (r *Router) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	provider, err := r.Detect(reference)
	if err != nil {
		return nil, err
	}
	return provider.Verify(ctx, reference)
}
