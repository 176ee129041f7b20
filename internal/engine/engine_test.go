package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"statarb/internal/gateway/exchange"
	"statarb/internal/market"
	"statarb/internal/strategy"
)

func testEngineConfig() Config {
	return Config{
		SymbolA:        "ALCH/USDT",
		SymbolB:        "BTC/USDT",
		Lookback:       3,
		ATRPeriod:      3,
		SigmaThreshold: 1.0,
		RiskAmount:     10,
		Leverage:       5,
		TPMultiplier:   2.0,
		SLMultiplier:   1.0,
		MaxPositions:   2,
	}
}

func testCandles(closes []float64) []market.Candle {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	minute := time.Minute.Milliseconds()
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			OpenTime:  start + int64(i)*minute,
			CloseTime: start + int64(i+1)*minute - 1,
			Open:      c, High: c + 0.1, Low: c - 0.1, Close: c, Volume: 1,
		}
	}
	return out
}

// Candle fixtures whose spread sits above the mean + 1 sigma band at the
// live quotes below.
var (
	bearishClosesA = []float64{10, 10.2, 10.4, 10.6}
	bearishClosesB = []float64{100, 100.5, 101, 101.2}
	bearishQuoteA  = market.Quote{Bid: 10.6, Ask: 10.8} // mid 10.7
	bearishQuoteB  = market.Quote{Bid: 101, Ask: 102}   // mid 101.5
)

func TestRunCycleOpensOnBearishSignal(t *testing.T) {
	exec := new(MockExecutor)
	journal := &memoryJournal{}
	eng, err := New(testEngineConfig(), exec, journal, nil)
	require.NoError(t, err)

	exec.On("SubmitMarketOrder", mock.Anything, mock.MatchedBy(func(req exchange.OrderRequest) bool {
		return req.Symbol == "ALCH/USDT" && req.Side == exchange.Sell
	})).Return(exchange.OrderResult{OrderID: "1"}, nil).Once()
	exec.On("SubmitMarketOrder", mock.Anything, mock.MatchedBy(func(req exchange.OrderRequest) bool {
		return req.Symbol == "BTC/USDT" && req.Side == exchange.Buy
	})).Return(exchange.OrderResult{OrderID: "2"}, nil).Once()

	result, err := eng.RunCycle(context.Background(),
		testCandles(bearishClosesA), testCandles(bearishClosesB), bearishQuoteA, bearishQuoteB)
	require.NoError(t, err)

	assert.Equal(t, strategy.Bearish, result.Signal)
	assert.Equal(t, 1, result.PositionsOpened)
	assert.Equal(t, 0, result.PositionsClosed)
	exec.AssertExpectations(t)

	positions := eng.Positions()
	require.Len(t, positions, 1)
	assert.Equal(t, Short, positions[0].Side)
	assert.InDelta(t, 10.7, positions[0].EntryPrice, 1e-9)

	status := eng.LastStatus()
	assert.Equal(t, "bearish", status.Signal)
	assert.Equal(t, 1, status.OpenPositions)
	require.NotNil(t, status.Snapshot)
	assert.InDelta(t, 0.18836462268025583, status.Snapshot.HedgeRatio, 1e-12)
}

func TestRunCycleDegradedStillChecksExits(t *testing.T) {
	exec := new(MockExecutor)
	journal := &memoryJournal{}
	eng, err := New(testEngineConfig(), exec, journal, nil)
	require.NoError(t, err)

	// First cycle opens a short: TP = 10.7 - 2*0.3, SL = 10.7 + 0.3.
	exec.On("SubmitMarketOrder", mock.Anything, mock.Anything).
		Return(exchange.OrderResult{OrderID: "1"}, nil)
	_, err = eng.RunCycle(context.Background(),
		testCandles(bearishClosesA), testCandles(bearishClosesB), bearishQuoteA, bearishQuoteB)
	require.NoError(t, err)
	require.Len(t, eng.Positions(), 1)

	// Second cycle has no usable candles but a quote through take-profit.
	result, err := eng.RunCycle(context.Background(), nil, nil,
		market.Quote{Bid: 9.9, Ask: 10.1}, bearishQuoteB)
	require.NoError(t, err)

	assert.Equal(t, strategy.Neutral, result.Signal)
	assert.Equal(t, 0, result.PositionsOpened)
	assert.Equal(t, 1, result.PositionsClosed)
	assert.Empty(t, eng.Positions())
	require.Len(t, journal.closes, 1)
	assert.Equal(t, "take_profit", journal.closes[0].reason)
}

func TestRunCycleNeutralOpensNothing(t *testing.T) {
	exec := new(MockExecutor)
	eng, err := New(testEngineConfig(), exec, nil, nil)
	require.NoError(t, err)

	// Quotes inside the band: current spread equals recent history.
	result, err := eng.RunCycle(context.Background(),
		testCandles(bearishClosesA), testCandles(bearishClosesB),
		market.Quote{Bid: 10.3, Ask: 10.5}, market.Quote{Bid: 101, Ask: 102})
	require.NoError(t, err)

	assert.Equal(t, strategy.Neutral, result.Signal)
	assert.Equal(t, 0, result.PositionsOpened)
	exec.AssertNotCalled(t, "SubmitMarketOrder")
}

func TestRunCycleInvalidQuotesNoTrades(t *testing.T) {
	exec := new(MockExecutor)
	eng, err := New(testEngineConfig(), exec, nil, nil)
	require.NoError(t, err)

	result, err := eng.RunCycle(context.Background(),
		testCandles(bearishClosesA), testCandles(bearishClosesB),
		market.Quote{}, market.Quote{})
	require.NoError(t, err)

	assert.Equal(t, strategy.Neutral, result.Signal)
	assert.Equal(t, 0, result.PositionsOpened)
	assert.Equal(t, 0, result.PositionsClosed)
	exec.AssertNotCalled(t, "SubmitMarketOrder")
}
