package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerCapacity(t *testing.T) {
	ledger := NewLedger(2)

	assert.True(t, ledger.TryAdd(Position{ID: "a", Symbol: "ALCH/USDT"}))
	assert.True(t, ledger.TryAdd(Position{ID: "b", Symbol: "ALCH/USDT"}))
	assert.False(t, ledger.TryAdd(Position{ID: "c", Symbol: "ALCH/USDT"}), "cap reached")
	assert.Equal(t, 2, ledger.Count())

	// Removing frees exactly one slot.
	assert.True(t, ledger.Remove("a"))
	assert.True(t, ledger.TryAdd(Position{ID: "c", Symbol: "ALCH/USDT"}))
	assert.False(t, ledger.TryAdd(Position{ID: "d", Symbol: "ALCH/USDT"}))
}

func TestLedgerRemoveAbsent(t *testing.T) {
	ledger := NewLedger(2)
	assert.False(t, ledger.Remove("nope"))
}

func TestLedgerForSymbolInsertionOrder(t *testing.T) {
	ledger := NewLedger(4)
	for i := 0; i < 3; i++ {
		ledger.TryAdd(Position{ID: fmt.Sprintf("p%d", i), Symbol: "ALCH/USDT"})
	}
	ledger.TryAdd(Position{ID: "other", Symbol: "BTC/USDT"})

	got := ledger.ForSymbol("ALCH/USDT")
	assert.Len(t, got, 3)
	assert.Equal(t, "p0", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)
	assert.Equal(t, "p2", got[2].ID)
	assert.Empty(t, ledger.ForSymbol("ETH/USDT"))
}

func TestLedgerSnapshotIsCopy(t *testing.T) {
	ledger := NewLedger(2)
	ledger.TryAdd(Position{ID: "a", Symbol: "ALCH/USDT", Quantity: 1})

	snap := ledger.Snapshot()
	snap[0].Quantity = 99
	assert.Equal(t, 1.0, ledger.Snapshot()[0].Quantity)
}

func TestNewLedgerMinimumCapacity(t *testing.T) {
	ledger := NewLedger(0)
	assert.True(t, ledger.TryAdd(Position{ID: "a"}))
	assert.False(t, ledger.TryAdd(Position{ID: "b"}))
}
