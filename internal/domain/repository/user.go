package repository

import (
	"context"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// UserRepository describes persistence operations for user documents.
type UserRepository interface {
	// Upgrade merge-writes pro entitlement fields. Re-applying the same
	// payment leaves the document unchanged.
	Upgrade(ctx context.Context, upgrade model.Upgrade) error
	Get(ctx context.Context, userID string) (*model.UserAccount, error)
}
