package usecase

import (
	"context"
	"log/slog"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
)

// EventPublisher announces completed upgrades.
type EventPublisher interface {
	PublishUpgrade(ctx context.Context, upgrade model.Upgrade) error
}

// ReconcileUseCase applies verified payments to stored state.
type ReconcileUseCase struct {
	users     repository.UserRepository
	payments  repository.PaymentRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(users repository.UserRepository, payments repository.PaymentRepository, publisher EventPublisher, logger *slog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{users: users, payments: payments, publisher: publisher, logger: logger}
}

// Apply grants pro status for a verified payment. Only the user write can
// fail the call; the payment record update and the event are best effort.
func (u *ReconcileUseCase) Apply(ctx context.Context, upgrade model.Upgrade) error {
	if err := u.users.Upgrade(ctx, upgrade); err != nil {
		return err
	}

	if upgrade.OrderID != "" {
		n, err := u.payments.MarkCaptured(ctx, upgrade.OrderID, upgrade.PaymentID, upgrade.UpgradedAt)
		switch {
		case err != nil:
			u.logger.Error("mark payment captured failed",
				slog.String("order_id", upgrade.OrderID),
				slog.String("payment_id", upgrade.PaymentID),
				slog.String("error", err.Error()),
			)
		case n == 0:
			u.logger.Debug("no uncaptured payment record for order", slog.String("order_id", upgrade.OrderID))
		}
	}

	if err := u.publisher.PublishUpgrade(ctx, upgrade); err != nil {
		u.logger.Error("publish upgrade failed",
			slog.String("user_id", upgrade.UserID),
			slog.String("payment_id", upgrade.PaymentID),
			slog.String("error", err.Error()),
		)
	}

	u.logger.Info("user upgraded",
		slog.String("user_id", upgrade.UserID),
		slog.String("payment_id", upgrade.PaymentID),
		slog.String("source", string(upgrade.Source)),
	)
	return nil
}
