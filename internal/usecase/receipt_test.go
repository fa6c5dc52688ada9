package usecase

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func receiptValue(t *testing.T, receipt string) int64 {
	t.Helper()
	if !strings.HasPrefix(receipt, receiptPrefix) {
		t.Fatalf("unexpected receipt format %q", receipt)
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(receipt, receiptPrefix), 10, 64)
	if err != nil {
		t.Fatalf("unexpected receipt suffix %q: %v", receipt, err)
	}
	return v
}

func TestReceiptGeneratorUsesClock(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	gen := NewReceiptGenerator(func() time.Time { return at })
	if got := gen.Next(); got != "receipt_1700000000123" {
		t.Fatalf("unexpected receipt %q", got)
	}
}

func TestReceiptGeneratorStrictlyIncreasing(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	gen := NewReceiptGenerator(func() time.Time { return frozen })

	prev := receiptValue(t, gen.Next())
	for i := 0; i < 100; i++ {
		next := receiptValue(t, gen.Next())
		if next <= prev {
			t.Fatalf("receipt %d not greater than %d", next, prev)
		}
		prev = next
	}
}

func TestReceiptGeneratorClockGoingBackwards(t *testing.T) {
	times := []time.Time{time.UnixMilli(2000), time.UnixMilli(1000)}
	i := 0
	gen := NewReceiptGenerator(func() time.Time {
		at := times[i]
		i++
		return at
	})
	first := receiptValue(t, gen.Next())
	second := receiptValue(t, gen.Next())
	if second <= first {
		t.Fatalf("expected %d > %d", second, first)
	}
}

func TestReceiptGeneratorConcurrentUnique(t *testing.T) {
	gen := NewReceiptGenerator(nil)
	const n = 200

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := gen.Next()
			mu.Lock()
			seen[r] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d unique receipts, got %d", n, len(seen))
	}
}
