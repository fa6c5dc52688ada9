package app

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
	"github.com/polkiloo/aiblend-payments/internal/metrics"
	"github.com/polkiloo/aiblend-payments/internal/usecase"
)

// Verification protocols used as metric labels.
const (
	ProtocolClient  = "client"
	ProtocolWebhook = "webhook"
)

type PaymentFacade struct {
	orders       *usecase.OrderUseCase
	verification *usecase.VerificationUseCase
	expiry       *usecase.ExpiryUseCase
	storage      repository.Factory
	metrics      *metrics.Metrics
}

func NewPaymentFacade(orders *usecase.OrderUseCase, verification *usecase.VerificationUseCase, expiry *usecase.ExpiryUseCase, storage repository.Factory, m *metrics.Metrics) *PaymentFacade {
	return &PaymentFacade{orders: orders, verification: verification, expiry: expiry, storage: storage, metrics: m}
}

func (f *PaymentFacade) CreateOrder(ctx context.Context, input model.CreateOrderInput) (*model.Order, error) {
	order, err := f.orders.Create(ctx, input)
	f.metrics.OrderCreated(err == nil)
	return order, err
}

func (f *PaymentFacade) VerifyPayment(ctx context.Context, confirmation model.PaymentConfirmation) error {
	err := f.verification.VerifyPayment(ctx, confirmation)
	f.metrics.Verification(ProtocolClient, verificationOutcome(err))
	return err
}

func (f *PaymentFacade) HandleWebhook(ctx context.Context, body []byte, signature string) (*model.WebhookOutcome, error) {
	outcome, err := f.verification.HandleWebhook(ctx, body, signature)
	result := verificationOutcome(err)
	if err == nil && !outcome.Applied {
		result = metrics.OutcomeIgnored
	}
	f.metrics.Verification(ProtocolWebhook, result)
	return outcome, err
}

func (f *PaymentFacade) StaleOrders(ctx context.Context, limit int) ([]model.PaymentRecord, error) {
	return f.expiry.Stale(ctx, limit)
}

func (f *PaymentFacade) ExpireOrder(ctx context.Context, record model.PaymentRecord) (bool, error) {
	expired, err := f.expiry.Expire(ctx, record)
	if err == nil && expired {
		f.metrics.OrderExpired()
	}
	return expired, err
}

// Ready reports whether the document store is reachable.
func (f *PaymentFacade) Ready(ctx context.Context) error {
	return f.storage.HealthCheck(ctx)
}

func verificationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeVerified
	case errors.Is(err, domainErrors.ErrInvalidSignature):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
