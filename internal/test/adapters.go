package test

import (
	"context"
	"sync"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// GatewayStub imitates payment gateway order creation.
type GatewayStub struct {
	CreateOrderFn func(context.Context, model.OrderRequest) (*model.Order, error)

	mu       sync.Mutex
	Requests []model.OrderRequest
}

// CreateOrder records request and echoes it back as a created order.
func (s *GatewayStub) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, req)
	}
	return &model.Order{
		ID:        "order_test",
		Entity:    "order",
		Amount:    req.Amount,
		AmountDue: req.Amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    model.OrderStatusCreated,
		Notes:     req.Notes,
	}, nil
}

// PublisherStub collects published upgrades.
type PublisherStub struct {
	Err error

	mu        sync.Mutex
	Published []model.Upgrade
	Closed    bool
}

// PublishUpgrade records upgrade and returns configured error.
func (s *PublisherStub) PublishUpgrade(ctx context.Context, upgrade model.Upgrade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, upgrade)
	return s.Err
}

// Close marks publisher closed.
func (s *PublisherStub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// VerifierStub returns fixed verification results.
type VerifierStub struct {
	PaymentValid bool
	WebhookValid bool
}

// VerifyPayment returns PaymentValid.
func (s VerifierStub) VerifyPayment(orderID, paymentID, signature string) bool {
	return s.PaymentValid
}

// VerifyWebhook returns WebhookValid.
func (s VerifierStub) VerifyWebhook(body []byte, signature string) bool {
	return s.WebhookValid
}
