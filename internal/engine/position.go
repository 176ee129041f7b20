// Package engine holds the decision core: the position ledger, the exit
// lifecycle, entry sizing and the per-cycle orchestration.
package engine

import (
	"sync"
	"time"

	"statarb/internal/gateway/exchange"
)

// Side is the direction of an open position.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// entrySide is the order direction that opens a position of this side.
func (s Side) entrySide() exchange.Side {
	if s == Short {
		return exchange.Sell
	}
	return exchange.Buy
}

// Position is one open trade on the primary instrument. It is created on
// entry, never resized, and destroyed when an exit order is accepted.
type Position struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   float64   `json:"quantity"`
	TakeProfit float64   `json:"take_profit"`
	StopLoss   float64   `json:"stop_loss"`
	OpenedAt   time.Time `json:"opened_at"`
}

// Ledger is the sole owner of open positions. All mutations go through
// TryAdd/Remove under one mutex; the lock is never held across network
// calls.
type Ledger struct {
	capacity int

	mu        sync.Mutex
	positions []Position
}

func NewLedger(capacity int) *Ledger {
	if capacity < 1 {
		capacity = 1
	}
	return &Ledger{capacity: capacity, positions: make([]Position, 0, capacity)}
}

// TryAdd inserts the position iff the concurrent-position cap allows it.
// A false return means "no capacity", not an error.
func (l *Ledger) TryAdd(pos Position) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.positions) >= l.capacity {
		return false
	}
	l.positions = append(l.positions, pos)
	return true
}

// Remove deletes the position by identity. No-op when absent.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.positions {
		if p.ID == id {
			l.positions = append(l.positions[:i], l.positions[i+1:]...)
			return true
		}
	}
	return false
}

// ForSymbol returns copies of the open positions for one instrument, in
// insertion order.
func (l *Ledger) ForSymbol(symbol string) []Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Position
	for _, p := range l.positions {
		if p.Symbol == symbol {
			out = append(out, p)
		}
	}
	return out
}

func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.positions)
}

// Snapshot returns a copy of all open positions.
func (l *Ledger) Snapshot() []Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Position, len(l.positions))
	copy(out, l.positions)
	return out
}
