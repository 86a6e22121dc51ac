package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
	"github.com/ikonicity-airban/geek-creations-sub001/providers"
	"github.com/ikonicity-airban/geek-creations-sub001/services"
)

// ---- mock variant repository ----

type mockVariantRepo struct {
	variants []models.ProductVariant
	err      error
}

func (m *mockVariantRepo) FindActiveByKeys(_ context.Context, keys []string) ([]models.ProductVariant, error) {
	if m.err != nil {
		return nil, m.err
	}
	byKey := map[string]models.ProductVariant{}
	for _, v := range m.variants {
		byKey[v.VariantKey] = v
	}
	var out []models.ProductVariant
	for _, k := range keys {
		if v, ok := byKey[k]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// ---- stateful mock order repository ----

type mockOrderRepo struct {
	order        *models.Order
	createErr    error
	createCalls  int
	claimCalls   int
	paidCalls    int
	reviewCalls  int
	reviewNote   string
	reclaimStale bool
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.order = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if m.order == nil || m.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.order
	return &cp, nil
}

func (m *mockOrderRepo) FindByPaymentReference(_ context.Context, reference string) (*models.Order, error) {
	if m.order == nil || m.order.PaymentReference != reference {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.order
	return &cp, nil
}

func (m *mockOrderRepo) ClaimForSettlement(_ context.Context, reference string) (bool, error) {
	m.claimCalls++
	if m.order == nil || m.order.PaymentReference != reference {
		return false, nil
	}
	switch m.order.PaymentStatus {
	case models.PaymentStatusPending:
		m.order.PaymentStatus = models.PaymentStatusVerified
		return true, nil
	case models.PaymentStatusVerified:
		// reclaimStale stands in for the updated_at staleness window
		return m.reclaimStale, nil
	}
	return false, nil
}

func (m *mockOrderRepo) MarkPaid(_ context.Context, reference string, shopifyOrderID int64, shopifyOrderName string, paidAt time.Time) error {
	m.paidCalls++
	if m.order == nil || m.order.PaymentReference != reference {
		return errors.New("order not found")
	}
	m.order.PaymentStatus = models.PaymentStatusPaid
	m.order.Status = models.OrderStatusPaid
	m.order.ShopifyOrderID = &shopifyOrderID
	m.order.ShopifyOrderName = &shopifyOrderName
	m.order.PaidAt = &paidAt
	return nil
}

func (m *mockOrderRepo) MarkNeedsReview(_ context.Context, reference, note string) error {
	m.reviewCalls++
	m.reviewNote = note
	if m.order != nil && m.order.PaymentReference == reference {
		m.order.PaymentStatus = models.PaymentStatusVerified
		m.order.Status = models.OrderStatusNeedsReview
		m.order.Notes = note
	}
	return nil
}

func (m *mockOrderRepo) FindNeedsReview(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	if m.order != nil && m.order.Status == models.OrderStatusNeedsReview {
		return []models.Order{*m.order}, 1, nil
	}
	return nil, 0, nil
}

// ---- mock transaction repository ----

type mockTxnRepo struct {
	created      []*models.PaymentTransaction
	createErr    error
	updateCalls  int
	updateStatus string
}

func (m *mockTxnRepo) Create(_ context.Context, txn *models.PaymentTransaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, txn)
	return nil
}

func (m *mockTxnRepo) FindByReference(_ context.Context, reference string) (*models.PaymentTransaction, error) {
	for _, txn := range m.created {
		if txn.Reference == reference {
			return txn, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTxnRepo) UpdateStatusByReference(_ context.Context, _, status string, _ *string) error {
	m.updateCalls++
	m.updateStatus = status
	return nil
}

// ---- mock order staging client ----

type mockStaging struct {
	draft         *services.DraftOrder
	createErr     error
	createCalls   int
	lastCreate    *services.DraftOrderRequest
	finalized     *services.FinalizedOrder
	completeErr   error
	completeCalls int
}

func (m *mockStaging) CreateDraftOrder(_ context.Context, req *services.DraftOrderRequest) (*services.DraftOrder, error) {
	m.createCalls++
	m.lastCreate = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.draft, nil
}

func (m *mockStaging) CompleteDraftOrder(_ context.Context, _ int64) (*services.FinalizedOrder, error) {
	m.completeCalls++
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return m.finalized, nil
}

// ---- mock payment provider ----

type mockProvider struct {
	kind        providers.ProviderKind
	prefix      string
	intent      *providers.PaymentIntent
	initiateErr error
	verifyRes   *providers.VerificationResult
	verifyErr   error
	initCalls   int
	lastParams  providers.InitiateParams
}

func (m *mockProvider) Kind() providers.ProviderKind { return m.kind }

func (m *mockProvider) Matches(ref string) bool {
	return len(ref) >= len(m.prefix) && ref[:len(m.prefix)] == m.prefix
}

func (m *mockProvider) Initiate(_ context.Context, params providers.InitiateParams) (*providers.PaymentIntent, error) {
	m.initCalls++
	m.lastParams = params
	if m.initiateErr != nil {
		return nil, m.initiateErr
	}
	return m.intent, nil
}

func (m *mockProvider) Verify(_ context.Context, _ string) (*providers.VerificationResult, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyRes, nil
}

// ---- mock event publisher / SNS ----

type mockEvents struct {
	events []models.OrderEvent
	err    error
}

func (m *mockEvents) PublishOrderEvent(event models.OrderEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

type mockSNS struct {
	published [][]byte
	arn       string
}

func (m *mockSNS) Publish(_ context.Context, topicArn string, message []byte) error {
	m.arn = topicArn
	m.published = append(m.published, append([]byte(nil), message...))
	return nil
}
