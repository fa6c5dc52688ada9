package handlers

import (
	"context"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// OrderFacade creates checkout orders.
type OrderFacade interface {
	CreateOrder(ctx context.Context, input model.CreateOrderInput) (*model.Order, error)
}

// VerificationFacade authenticates payment confirmations.
type VerificationFacade interface {
	VerifyPayment(ctx context.Context, confirmation model.PaymentConfirmation) error
	HandleWebhook(ctx context.Context, body []byte, signature string) (*model.WebhookOutcome, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	Ready(ctx context.Context) error
}

// PaymentFacade aggregates the full set of operations used across handlers.
type PaymentFacade interface {
	OrderFacade
	VerificationFacade
	HealthFacade
}
