package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/config"
	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	testhelpers "github.com/polkiloo/aiblend-payments/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newOrderUseCase(gateway OrderGateway, payments *testhelpers.PaymentRepositoryStub) *OrderUseCase {
	return NewOrderUseCase(gateway, payments, &config.Config{DefaultCurrency: "INR"}, testLogger())
}

func TestOrderUseCaseCreateConvertsAmount(t *testing.T) {
	gateway := &testhelpers.GatewayStub{}
	payments := &testhelpers.PaymentRepositoryStub{}
	uc := newOrderUseCase(gateway, payments)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	order, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 500, UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gateway.Requests) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gateway.Requests))
	}
	req := gateway.Requests[0]
	if req.Amount != 50000 || req.Currency != "INR" {
		t.Fatalf("unexpected gateway request %+v", req)
	}
	if !strings.HasPrefix(req.Receipt, "receipt_") {
		t.Fatalf("unexpected receipt %q", req.Receipt)
	}
	if req.Notes[model.NoteUserID] != "u1" {
		t.Fatalf("expected userId note, got %v", req.Notes)
	}
	if order.Amount != 50000 {
		t.Fatalf("expected remote amount 50000, got %d", order.Amount)
	}

	if len(payments.Created) != 1 {
		t.Fatalf("expected one payment record, got %d", len(payments.Created))
	}
	record := payments.Created[0]
	want := model.PaymentRecord{
		UserID:    "u1",
		OrderID:   order.ID,
		Amount:    500,
		Currency:  "INR",
		Status:    model.PaymentStatusCreated,
		CreatedAt: fixed,
	}
	if record != want {
		t.Fatalf("expected record %+v, got %+v", want, record)
	}
}

func TestOrderUseCaseCreateDistinctReceipts(t *testing.T) {
	gateway := &testhelpers.GatewayStub{}
	uc := newOrderUseCase(gateway, &testhelpers.PaymentRepositoryStub{})

	for i := 0; i < 3; i++ {
		if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 1, UserID: "u1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	seen := map[string]bool{}
	for _, req := range gateway.Requests {
		if seen[req.Receipt] {
			t.Fatalf("duplicate receipt %q", req.Receipt)
		}
		seen[req.Receipt] = true
	}
}

func TestOrderUseCaseCreateRejectsInvalidInput(t *testing.T) {
	gateway := &testhelpers.GatewayStub{CreateOrderFn: func(context.Context, model.OrderRequest) (*model.Order, error) {
		t.Fatal("gateway should not be called for invalid input")
		return nil, nil
	}}
	uc := newOrderUseCase(gateway, &testhelpers.PaymentRepositoryStub{})

	if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 0, UserID: "u1"}); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: model.MaxOrderAmount + 1, UserID: "u1"}); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for overflowing value, got %v", err)
	}
	if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 184467440737095516, UserID: "u1"}); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for wrapping value, got %v", err)
	}
	if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 1}); !errors.Is(err, domainErrors.ErrMissingUserID) {
		t.Fatalf("expected missing user id, got %v", err)
	}
}

func TestOrderUseCaseCreatePropagatesGatewayError(t *testing.T) {
	gatewayErr := errors.New("Authentication failed")
	gateway := &testhelpers.GatewayStub{CreateOrderFn: func(context.Context, model.OrderRequest) (*model.Order, error) {
		return nil, gatewayErr
	}}
	payments := &testhelpers.PaymentRepositoryStub{}
	uc := newOrderUseCase(gateway, payments)

	if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 1, UserID: "u1"}); !errors.Is(err, gatewayErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if len(payments.Created) != 0 {
		t.Fatal("no record expected when gateway fails")
	}
}

func TestOrderUseCaseCreatePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store unavailable")
	payments := &testhelpers.PaymentRepositoryStub{CreateFn: func(context.Context, model.PaymentRecord) (*model.PaymentRecord, error) {
		return nil, storeErr
	}}
	uc := newOrderUseCase(&testhelpers.GatewayStub{}, payments)

	if _, err := uc.Create(context.Background(), model.CreateOrderInput{Amount: 1, UserID: "u1"}); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
