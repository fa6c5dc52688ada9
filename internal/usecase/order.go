package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/config"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
)

// OrderGateway creates orders at the payment provider.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// OrderUseCase encapsulates order creation.
type OrderUseCase struct {
	gateway         OrderGateway
	payments        repository.PaymentRepository
	receipts        *ReceiptGenerator
	defaultCurrency string
	now             func() time.Time
	logger          *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(gateway OrderGateway, payments repository.PaymentRepository, cfg *config.Config, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		gateway:         gateway,
		payments:        payments,
		receipts:        NewReceiptGenerator(time.Now),
		defaultCurrency: cfg.DefaultCurrency,
		now:             time.Now,
		logger:          logger,
	}
}

// Create registers a remote order for amount in major units and records a
// created payment. A failed store write leaves the remote order in place.
func (u *OrderUseCase) Create(ctx context.Context, input model.CreateOrderInput) (*model.Order, error) {
	input, err := NormalizeOrderInput(input, u.defaultCurrency)
	if err != nil {
		return nil, err
	}

	order, err := u.gateway.CreateOrder(ctx, model.OrderRequest{
		Amount:   input.Amount * model.MinorUnitsPerMajor,
		Currency: input.Currency,
		Receipt:  u.receipts.Next(),
		Notes:    model.Notes{model.NoteUserID: input.UserID},
	})
	if err != nil {
		return nil, err
	}

	record, err := u.payments.Create(ctx, model.PaymentRecord{
		UserID:    input.UserID,
		OrderID:   order.ID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Status:    model.PaymentStatusCreated,
		CreatedAt: u.now().UTC(),
	})
	if err != nil {
		u.logger.Error("record payment failed",
			slog.String("order_id", order.ID),
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	u.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("record_id", record.ID),
		slog.String("user_id", input.UserID),
		slog.Int64("amount", order.Amount),
		slog.String("currency", order.Currency),
	)
	return order, nil
}
