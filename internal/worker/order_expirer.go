package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// ExpiryFacade exposes the subset of application functionality required by the worker.
type ExpiryFacade interface {
	StaleOrders(ctx context.Context, limit int) ([]model.PaymentRecord, error)
	ExpireOrder(ctx context.Context, record model.PaymentRecord) (bool, error)
}

// OrderExpirer polls for abandoned orders and fails them concurrently.
type OrderExpirer struct {
	facade       ExpiryFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.PaymentRecord
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOrderExpirer constructs order expirer worker pool.
func NewOrderExpirer(facade ExpiryFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OrderExpirer {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &OrderExpirer{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background processing.
func (p *OrderExpirer) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.jobs = make(chan model.PaymentRecord, p.batchSize*p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx, p.jobs)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx, p.jobs)
}

// Stop waits for all workers to finish.
func (p *OrderExpirer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *OrderExpirer) dispatch(ctx context.Context, jobs chan<- model.PaymentRecord) {
	defer p.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (p *OrderExpirer) fetchAndDispatch(ctx context.Context, jobs chan<- model.PaymentRecord) {
	records, err := p.facade.StaleOrders(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stale orders failed", slog.String("error", err.Error()))
		return
	}
	for _, record := range records {
		select {
		case <-ctx.Done():
			return
		case jobs <- record:
		}
	}
}

func (p *OrderExpirer) worker(ctx context.Context, jobs <-chan model.PaymentRecord) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-jobs:
			if !ok {
				return
			}
			p.handleRecord(ctx, record)
		}
	}
}

func (p *OrderExpirer) handleRecord(ctx context.Context, record model.PaymentRecord) {
	expired, err := p.facade.ExpireOrder(ctx, record)
	if err != nil {
		p.logger.Error("expire order failed",
			slog.String("record_id", record.ID),
			slog.String("order_id", record.OrderID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !expired {
		p.logger.Debug("order left created status before expiry", slog.String("order_id", record.OrderID))
		return
	}
	p.logger.Info("order expired",
		slog.String("record_id", record.ID),
		slog.String("order_id", record.OrderID),
		slog.String("user_id", record.UserID),
	)
}
