package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Payments() PaymentRepository
	Users() UserRepository
	HealthCheck(ctx context.Context) error
}
