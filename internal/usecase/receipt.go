package usecase

import (
	"strconv"
	"sync"
	"time"
)

const receiptPrefix = "receipt_"

// ReceiptGenerator issues time-derived receipts that never repeat within
// the process, even when several orders land in the same millisecond.
type ReceiptGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewReceiptGenerator constructs ReceiptGenerator reading time from now.
func NewReceiptGenerator(now func() time.Time) *ReceiptGenerator {
	if now == nil {
		now = time.Now
	}
	return &ReceiptGenerator{now: now}
}

// Next returns receipt_<unix millis>, strictly greater than the previous one.
func (g *ReceiptGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixMilli()
	if millis <= g.last {
		millis = g.last + 1
	}
	g.last = millis
	return receiptPrefix + strconv.FormatInt(millis, 10)
}
