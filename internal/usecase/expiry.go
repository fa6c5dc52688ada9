package usecase

import (
	"context"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/config"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
)

// ExpiryUseCase fails payment records abandoned in created status.
type ExpiryUseCase struct {
	payments repository.PaymentRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewExpiryUseCase constructs ExpiryUseCase with TTL from config.
func NewExpiryUseCase(payments repository.PaymentRepository, cfg *config.Config) *ExpiryUseCase {
	return &ExpiryUseCase{payments: payments, ttl: cfg.OrderTTL, now: time.Now}
}

// Enabled reports whether a TTL is configured.
func (u *ExpiryUseCase) Enabled() bool {
	return u.ttl > 0
}

// Stale returns up to limit created records older than the TTL.
func (u *ExpiryUseCase) Stale(ctx context.Context, limit int) ([]model.PaymentRecord, error) {
	if !u.Enabled() {
		return nil, nil
	}
	return u.payments.SelectStale(ctx, u.now().UTC().Add(-u.ttl), limit)
}

// Expire fails the record unless it has left created status meanwhile.
func (u *ExpiryUseCase) Expire(ctx context.Context, record model.PaymentRecord) (bool, error) {
	return u.payments.MarkExpired(ctx, record.ID, u.now().UTC())
}
