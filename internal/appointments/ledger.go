package appointments

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrLedgerFull is returned by a capacity-bounded MemoryLedger.
var ErrLedgerFull = errors.New("appointments: ledger is full")

// Ledger is the append-only, insertion-ordered collection of records.
// Append is atomic from the caller's view: on nil error the record is
// present, otherwise it is absent.
type Ledger interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]Record, error)
}

// MemoryLedger keeps records in process memory.
type MemoryLedger struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
}

var _ Ledger = (*MemoryLedger)(nil)

// MemoryOption configures a MemoryLedger.
type MemoryOption func(*MemoryLedger)

// WithCapacity caps the number of records; zero means unbounded.
func WithCapacity(n int) MemoryOption {
	return func(l *MemoryLedger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger(opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append stores a copy of rec. A panic during the append is reported as an
// error and leaves the ledger unchanged.
func (l *MemoryLedger) Append(ctx context.Context, rec *Record) (err error) {
	if rec == nil {
		return ErrNilRecord
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.records)
	defer func() {
		if r := recover(); r != nil {
			l.records = l.records[:before]
			err = fmt.Errorf("appointments: append panicked: %v", r)
		}
	}()

	if l.capacity > 0 && before >= l.capacity {
		return ErrLedgerFull
	}
	l.records = append(l.records, *rec)
	return nil
}

// List returns the records in insertion order.
func (l *MemoryLedger) List(ctx context.Context) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Len returns the number of stored records.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
