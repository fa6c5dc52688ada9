package test

import (
	"context"
	"sync"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, model.CreateOrderInput) (*model.Order, error)
}

// CreateOrder delegates to provided function or returns default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, input model.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, input)
	}
	return &model.Order{
		ID:       "order_1",
		Entity:   "order",
		Amount:   input.Amount * model.MinorUnitsPerMajor,
		Currency: input.Currency,
		Status:   model.OrderStatusCreated,
	}, nil
}

// VerificationFacadeStub simulates verification flows.
type VerificationFacadeStub struct {
	VerifyFn  func(context.Context, model.PaymentConfirmation) error
	WebhookFn func(context.Context, []byte, string) (*model.WebhookOutcome, error)
}

// VerifyPayment accepts every confirmation unless overridden.
func (s VerificationFacadeStub) VerifyPayment(ctx context.Context, confirmation model.PaymentConfirmation) error {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, confirmation)
	}
	return nil
}

// HandleWebhook reports an applied outcome unless overridden.
func (s VerificationFacadeStub) HandleWebhook(ctx context.Context, body []byte, signature string) (*model.WebhookOutcome, error) {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, body, signature)
	}
	return &model.WebhookOutcome{Applied: true, Reason: model.WebhookReasonApplied}, nil
}

// HealthFacadeStub returns configured readiness.
type HealthFacadeStub struct {
	Err error
}

// Ready returns Err.
func (s HealthFacadeStub) Ready(context.Context) error {
	return s.Err
}

// PaymentFacadeStub aggregates facade dependencies for HTTP layer tests.
type PaymentFacadeStub struct {
	OrderFacadeStub
	VerificationFacadeStub
	HealthFacadeStub
}

// ExpiryFacadeStub mimics worker interactions with payment facade.
type ExpiryFacadeStub struct {
	Batches  [][]model.PaymentRecord
	StaleFn  func(context.Context, int) ([]model.PaymentRecord, error)
	ExpireFn func(context.Context, model.PaymentRecord) (bool, error)

	mu       sync.Mutex
	calls    int
	attempts []string
	expired  []string
}

// StaleOrders returns batches from configured queue.
func (s *ExpiryFacadeStub) StaleOrders(ctx context.Context, limit int) ([]model.PaymentRecord, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls < len(s.Batches) {
		batch := s.Batches[s.calls]
		s.calls++
		return batch, nil
	}
	return nil, nil
}

// ExpireOrder records expiry requests.
func (s *ExpiryFacadeStub) ExpireOrder(ctx context.Context, record model.PaymentRecord) (bool, error) {
	s.mu.Lock()
	s.attempts = append(s.attempts, record.ID)
	s.mu.Unlock()

	ok, err := true, error(nil)
	if s.ExpireFn != nil {
		ok, err = s.ExpireFn(ctx, record)
	}
	if ok && err == nil {
		s.mu.Lock()
		s.expired = append(s.expired, record.ID)
		s.mu.Unlock()
	}
	return ok, err
}

// Attempts returns ids passed to ExpireOrder.
func (s *ExpiryFacadeStub) Attempts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.attempts...)
}

// ExpiredIDs returns ids that were expired successfully.
func (s *ExpiryFacadeStub) ExpiredIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.expired...)
}
