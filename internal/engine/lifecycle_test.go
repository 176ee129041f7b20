package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"statarb/internal/gateway/exchange"
)

func newLongPosition(id string) Position {
	return Position{
		ID:         id,
		Symbol:     "ALCH/USDT",
		Side:       Long,
		EntryPrice: 100,
		Quantity:   5,
		TakeProfit: 110,
		StopLoss:   95,
	}
}

func TestCheckExitsTakeProfit(t *testing.T) {
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(newLongPosition("p1")))
	exec := new(MockExecutor)
	journal := &memoryJournal{}
	mgr := NewLifecycleManager(ledger, exec, journal, nil, 5)

	exec.On("SubmitMarketOrder", mock.Anything, exchange.OrderRequest{
		Symbol:   "ALCH/USDT",
		Side:     exchange.Sell,
		Quantity: 5,
	}).Return(exchange.OrderResult{OrderID: "1"}, nil).Once()

	closed := mgr.CheckExits(context.Background(), "ALCH/USDT", 110)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 0, ledger.Count())
	exec.AssertExpectations(t)

	require.Len(t, journal.closes, 1)
	rec := journal.closes[0]
	assert.Equal(t, "take_profit", rec.reason)
	assert.Equal(t, 110.0, rec.exitPrice)
	// (110-100) * 5 * 5x leverage
	assert.InDelta(t, 250.0, rec.pnl, 1e-9)
}

func TestCheckExitsStopLoss(t *testing.T) {
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(newLongPosition("p1")))
	exec := new(MockExecutor)
	journal := &memoryJournal{}
	mgr := NewLifecycleManager(ledger, exec, journal, nil, 5)

	exec.On("SubmitMarketOrder", mock.Anything, mock.Anything).
		Return(exchange.OrderResult{OrderID: "1"}, nil).Once()

	closed := mgr.CheckExits(context.Background(), "ALCH/USDT", 95)
	assert.Equal(t, 1, closed)
	require.Len(t, journal.closes, 1)
	assert.Equal(t, "stop_loss", journal.closes[0].reason)
	assert.InDelta(t, -125.0, journal.closes[0].pnl, 1e-9)
}

func TestCheckExitsNoTrigger(t *testing.T) {
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(newLongPosition("p1")))
	exec := new(MockExecutor)
	mgr := NewLifecycleManager(ledger, exec, nil, nil, 5)

	closed := mgr.CheckExits(context.Background(), "ALCH/USDT", 105)
	assert.Equal(t, 0, closed)
	assert.Equal(t, 1, ledger.Count())
	exec.AssertNotCalled(t, "SubmitMarketOrder")
}

func TestCheckExitsShortSide(t *testing.T) {
	pos := Position{
		ID: "s1", Symbol: "ALCH/USDT", Side: Short,
		EntryPrice: 100, Quantity: 5, TakeProfit: 90, StopLoss: 105,
	}
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(pos))
	exec := new(MockExecutor)
	journal := &memoryJournal{}
	mgr := NewLifecycleManager(ledger, exec, journal, nil, 1)

	// Shorts close with a buy order.
	exec.On("SubmitMarketOrder", mock.Anything, exchange.OrderRequest{
		Symbol:   "ALCH/USDT",
		Side:     exchange.Buy,
		Quantity: 5,
	}).Return(exchange.OrderResult{OrderID: "1"}, nil).Once()

	closed := mgr.CheckExits(context.Background(), "ALCH/USDT", 90)
	assert.Equal(t, 1, closed)
	require.Len(t, journal.closes, 1)
	assert.Equal(t, "take_profit", journal.closes[0].reason)
	assert.InDelta(t, 50.0, journal.closes[0].pnl, 1e-9)
	exec.AssertExpectations(t)
}

func TestCheckExitsRetryableFailureKeepsPosition(t *testing.T) {
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(newLongPosition("p1")))
	exec := new(MockExecutor)
	notify := &memoryNotifier{}
	mgr := NewLifecycleManager(ledger, exec, nil, notify, 5)

	exec.On("SubmitMarketOrder", mock.Anything, mock.Anything).
		Return(exchange.OrderResult{}, exchange.Retryable(errors.New("timeout"))).Once()

	closed := mgr.CheckExits(context.Background(), "ALCH/USDT", 110)
	assert.Equal(t, 0, closed)
	assert.Equal(t, 1, ledger.Count(), "position stays for the next cycle")
	assert.Empty(t, notify.sent(), "transient failures do not page")
}

func TestCheckExitsFatalFailureKeepsPositionAndNotifies(t *testing.T) {
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(newLongPosition("p1")))
	exec := new(MockExecutor)
	notify := &memoryNotifier{}
	mgr := NewLifecycleManager(ledger, exec, nil, notify, 5)

	exec.On("SubmitMarketOrder", mock.Anything, mock.Anything).
		Return(exchange.OrderResult{}, exchange.Fatal(errors.New("margin insufficient"))).Once()

	closed := mgr.CheckExits(context.Background(), "ALCH/USDT", 110)
	assert.Equal(t, 0, closed)
	assert.Equal(t, 1, ledger.Count())
	assert.Len(t, notify.sent(), 1)
}

func TestCheckExitsInvalidPrice(t *testing.T) {
	ledger := NewLedger(2)
	require.True(t, ledger.TryAdd(newLongPosition("p1")))
	exec := new(MockExecutor)
	mgr := NewLifecycleManager(ledger, exec, nil, nil, 5)

	assert.Equal(t, 0, mgr.CheckExits(context.Background(), "ALCH/USDT", 0))
	exec.AssertNotCalled(t, "SubmitMarketOrder")
}

func TestExitReasonBoundaries(t *testing.T) {
	long := newLongPosition("p1")

	reason, ok := long.exitReason(110)
	assert.True(t, ok)
	assert.Equal(t, exitTakeProfit, reason)

	reason, ok = long.exitReason(95)
	assert.True(t, ok)
	assert.Equal(t, exitStopLoss, reason)

	_, ok = long.exitReason(109.999)
	assert.False(t, ok)
	_, ok = long.exitReason(95.001)
	assert.False(t, ok)
}
