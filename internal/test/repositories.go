package test

import (
	"context"
	"strconv"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// MarkCapturedCall stores MarkCaptured arguments.
type MarkCapturedCall struct {
	OrderID   string
	PaymentID string
	At        time.Time
}

// PaymentRepositoryStub records payment writes for tests.
type PaymentRepositoryStub struct {
	CreateFn       func(context.Context, model.PaymentRecord) (*model.PaymentRecord, error)
	SaveCapturedFn func(context.Context, string, map[string]any) error
	MarkCapturedFn func(context.Context, string, string, time.Time) (int64, error)
	SelectStaleFn  func(context.Context, time.Time, int) ([]model.PaymentRecord, error)
	MarkExpiredFn  func(context.Context, string, time.Time) (bool, error)

	mu       sync.Mutex
	Created  []model.PaymentRecord
	Saved    map[string]map[string]any
	Captured []MarkCapturedCall
	Expired  []string
}

// Create stores record and assigns sequential ids.
func (s *PaymentRepositoryStub) Create(ctx context.Context, record model.PaymentRecord) (*model.PaymentRecord, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created = append(s.Created, record)
	record.ID = "record-" + strconv.Itoa(len(s.Created))
	return &record, nil
}

// SaveCaptured keeps the last document per payment id.
func (s *PaymentRepositoryStub) SaveCaptured(ctx context.Context, paymentID string, document map[string]any) error {
	if s.SaveCapturedFn != nil {
		return s.SaveCapturedFn(ctx, paymentID, document)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Saved == nil {
		s.Saved = make(map[string]map[string]any)
	}
	s.Saved[paymentID] = document
	return nil
}

// MarkCaptured records invocation and reports one affected record.
func (s *PaymentRepositoryStub) MarkCaptured(ctx context.Context, orderID, paymentID string, at time.Time) (int64, error) {
	if s.MarkCapturedFn != nil {
		return s.MarkCapturedFn(ctx, orderID, paymentID, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Captured = append(s.Captured, MarkCapturedCall{OrderID: orderID, PaymentID: paymentID, At: at})
	return 1, nil
}

// SelectStale returns no records unless overridden.
func (s *PaymentRepositoryStub) SelectStale(ctx context.Context, createdBefore time.Time, limit int) ([]model.PaymentRecord, error) {
	if s.SelectStaleFn != nil {
		return s.SelectStaleFn(ctx, createdBefore, limit)
	}
	return nil, nil
}

// MarkExpired records invocation and reports success.
func (s *PaymentRepositoryStub) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	if s.MarkExpiredFn != nil {
		return s.MarkExpiredFn(ctx, id, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Expired = append(s.Expired, id)
	return true, nil
}

// UserRepositoryStub records upgrades for tests.
type UserRepositoryStub struct {
	UpgradeFn func(context.Context, model.Upgrade) error
	GetFn     func(context.Context, string) (*model.UserAccount, error)

	mu       sync.Mutex
	Upgrades []model.Upgrade
}

// Upgrade records invocation unless overridden.
func (s *UserRepositoryStub) Upgrade(ctx context.Context, upgrade model.Upgrade) error {
	if s.UpgradeFn != nil {
		return s.UpgradeFn(ctx, upgrade)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Upgrades = append(s.Upgrades, upgrade)
	return nil
}

// Get reports the latest recorded upgrade for the user.
func (s *UserRepositoryStub) Get(ctx context.Context, userID string) (*model.UserAccount, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Upgrades) - 1; i >= 0; i-- {
		if up := s.Upgrades[i]; up.UserID == userID {
			at := up.UpgradedAt
			return &model.UserAccount{ID: userID, ProStatus: true, LastPaymentID: up.PaymentID, UpgradedAt: &at}, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}
