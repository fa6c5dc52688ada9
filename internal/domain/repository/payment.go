package repository

import (
	"context"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// PaymentRepository describes persistence operations for the payments collection.
type PaymentRepository interface {
	// Create appends a record under a generated id and returns it with ID set.
	Create(ctx context.Context, record model.PaymentRecord) (*model.PaymentRecord, error)
	// SaveCaptured merges a provider payment document keyed by the payment id.
	SaveCaptured(ctx context.Context, paymentID string, document map[string]any) error
	// MarkCaptured moves records of the order to captured and reports how many changed.
	MarkCaptured(ctx context.Context, orderID, paymentID string, at time.Time) (int64, error)
	SelectStale(ctx context.Context, createdBefore time.Time, limit int) ([]model.PaymentRecord, error)
	// MarkExpired fails the record only while it is still created.
	MarkExpired(ctx context.Context, id string, at time.Time) (bool, error)
}
