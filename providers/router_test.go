package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	kind    ProviderKind
	prefix  string
	status  PaymentStatus
	verifys int
}

func (s *stubProvider) Kind() ProviderKind { return s.kind }
func (s *stubProvider) Matches(ref string) bool {
	return len(ref) > len(s.prefix) && ref[:len(s.prefix)] == s.prefix
}
func (s *stubProvider) Initiate(_ context.Context, _ InitiateParams) (*PaymentIntent, error) {
	return &PaymentIntent{Reference: s.prefix + "ref"}, nil
}
func (s *stubProvider) Verify(_ context.Context, ref string) (*VerificationResult, error) {
	s.verifys++
	return &VerificationResult{Status: s.status, Reference: ref}, nil
}

func TestRouterDetect(t *testing.T) {
	card := &stubProvider{kind: ProviderPaystack, prefix: "PSK_"}
	crypto := &stubProvider{kind: ProviderSolanaPay, prefix: "SOL"}
	router := NewRouter(card, crypto)

	p, err := router.Detect("PSK_abc")
	assert.NoError(t, err)
	assert.Equal(t, ProviderPaystack, p.Kind())

	p, err = router.Detect("SOLxyz")
	assert.NoError(t, err)
	assert.Equal(t, ProviderSolanaPay, p.Kind())
}

func TestRouterDetect_Unrecognized(t *testing.T) {
	router := NewRouter(&stubProvider{kind: ProviderPaystack, prefix: "PSK_"})

	p, err := router.Detect("totally-bogus")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrUnrecognizedReference)
}

func TestRouterVerify_DispatchesToOwner(t *testing.T) {
	card := &stubProvider{kind: ProviderPaystack, prefix: "PSK_", status: StatusSuccess}
	crypto := &stubProvider{kind: ProviderSolanaPay, prefix: "SOL", status: StatusPending}
	router := NewRouter(card, crypto)

	result, err := router.Verify(context.Background(), "SOLxyz")
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, result.Status)
	assert.Equal(t, 0, card.verifys)
	assert.Equal(t, 1, crypto.verifys)
}

func TestRouterVerify_UnrecognizedSkipsAllProviders(t *testing.T) {
	card := &stubProvider{kind: ProviderPaystack, prefix: "PSK_"}
	router := NewRouter(card)

	result, err := router.Verify(context.Background(), "nope")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnrecognizedReference)
	assert.Equal(t, 0, card.verifys)
}

// References issued by the real adapters must never collide.
func TestAdapterReferencesNeverCollide(t *testing.T) {
	paystack := NewPaystackProvider("sk_test_x", "")
	solana := NewSolanaPayProvider(testRecipient, "http://localhost:8899", testUSDCMint, "")
	router := NewRouter(paystack, solana)

	for i := 0; i < 20; i++ {
		ref, err := newPaystackReference()
		assert.NoError(t, err)
		p, err := router.Detect(ref)
		assert.NoError(t, err)
		assert.Equal(t, ProviderPaystack, p.Kind())

		intent, err := solana.Initiate(context.Background(), InitiateParams{Amount: 1})
		assert.NoError(t, err)
		p, err = router.Detect(intent.Reference)
		assert.NoError(t, err)
		assert.Equal(t, ProviderSolanaPay, p.Kind())
	}
}
