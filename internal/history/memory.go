package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps the trade record in memory. Used in tests and when no
// Postgres DSN is configured; the daily ledger then resets with the
// process.
type MemoryStore struct {
	mu     sync.Mutex
	trades []Trade
	nextID int64
}

// NewMemoryStore creates an empty in-memory trade record.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Record(ctx context.Context, trade Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trade.ID = s.nextID
	s.nextID++
	s.trades = append(s.trades, trade)
	return nil
}

func (s *MemoryStore) RealizedPnL(ctx context.Context, day time.Time) (float64, error) {
	start, end := dayBounds(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, t := range s.trades {
		if t.ClosedAt == nil {
			continue
		}
		closed := t.ClosedAt.UTC()
		if !closed.Before(start) && closed.Before(end) {
			total += t.RealizedPnL
		}
	}
	return total, nil
}

func (s *MemoryStore) TradesOn(ctx context.Context, day time.Time) ([]Trade, error) {
	start, end := dayBounds(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Trade
	for _, t := range s.trades {
		executed := t.ExecutedAt.UTC()
		if !executed.Before(start) && executed.Before(end) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExecutedAt.Before(out[j].ExecutedAt)
	})
	return out, nil
}
