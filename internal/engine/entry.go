package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"statarb/internal/gateway/exchange"
	"statarb/internal/gateway/notifier"
	"statarb/internal/logger"
	"statarb/internal/pkg/trading"
	"statarb/internal/strategy"
)

// EntryController sizes and opens a new hedged position on a non-neutral
// signal. The primary leg is tracked in the ledger; the hedge leg on the
// reference instrument is fired once and not tracked.
type EntryController struct {
	ledger  *Ledger
	exec    exchange.Executor
	journal Journal
	notify  notifier.TextNotifier

	symbolA      string
	symbolB      string
	riskAmount   float64
	tpMultiplier float64
	slMultiplier float64
}

func NewEntryController(ledger *Ledger, exec exchange.Executor, journal Journal, notify notifier.TextNotifier,
	symbolA, symbolB string, riskAmount, tpMultiplier, slMultiplier float64) *EntryController {
	if journal == nil {
		journal = NoopJournal{}
	}
	if notify == nil {
		notify = notifier.Noop{}
	}
	return &EntryController{
		ledger:       ledger,
		exec:         exec,
		journal:      journal,
		notify:       notify,
		symbolA:      symbolA,
		symbolB:      symbolB,
		riskAmount:   riskAmount,
		tpMultiplier: tpMultiplier,
		slMultiplier: slMultiplier,
	}
}

// Open attempts one entry. It is a no-op when the signal is neutral, the
// inputs are unusable, or the ledger has no capacity. The returned count
// is the number of positions opened (0 or 1).
func (c *EntryController) Open(ctx context.Context, sig strategy.Signal, priceA, priceB, atr float64) (int, error) {
	if sig == strategy.Neutral {
		return 0, nil
	}
	if priceA <= 0 || atr <= 0 || math.IsNaN(atr) {
		logger.Warnf("entry skipped: invalid price=%v or atr=%v", priceA, atr)
		return 0, nil
	}
	qty := trading.PositionSize(c.riskAmount, priceA)
	pos := Position{
		ID:         uuid.NewString(),
		Symbol:     c.symbolA,
		Quantity:   qty,
		EntryPrice: priceA,
		OpenedAt:   time.Now().UTC(),
	}
	switch sig {
	case strategy.Bullish:
		pos.Side = Long
		pos.TakeProfit = priceA + c.tpMultiplier*atr
		pos.StopLoss = priceA - c.slMultiplier*atr
	case strategy.Bearish:
		pos.Side = Short
		pos.TakeProfit = priceA - c.tpMultiplier*atr
		pos.StopLoss = priceA + c.slMultiplier*atr
	}

	// Reserve the ledger slot before touching the wire so the capacity
	// check cannot be overrun; the slot is released if the order fails.
	if !c.ledger.TryAdd(pos) {
		logger.Infof("entry skipped: max concurrent positions reached")
		return 0, nil
	}

	req := exchange.OrderRequest{Symbol: c.symbolA, Side: pos.Side.entrySide(), Quantity: qty}
	if _, err := c.exec.SubmitMarketOrder(ctx, req); err != nil {
		c.ledger.Remove(pos.ID)
		if exchange.IsRetryable(err) {
			logger.Warnf("entry order deferred: %v", err)
			return 0, nil
		}
		logger.Errorf("entry order rejected: %v", err)
		if nerr := c.notify.SendText(notifier.Anomaly(
			"entry order rejected",
			fmt.Sprintf("symbol: %s signal: %s", c.symbolA, sig),
			fmt.Sprintf("qty: %v price: %v", qty, priceA),
			fmt.Sprintf("error: %v", err),
		)); nerr != nil {
			logger.Warnf("notify failed: %v", nerr)
		}
		return 0, err
	}

	logger.Infof("opened %s %s | entry=%.6f qty=%.6f tp=%.6f sl=%.6f",
		pos.Side, pos.Symbol, pos.EntryPrice, pos.Quantity, pos.TakeProfit, pos.StopLoss)
	if err := c.journal.RecordOpen(ctx, pos); err != nil {
		logger.Warnf("journal open record failed: %v", err)
	}

	c.submitHedge(ctx, pos, priceB)
	return 1, nil
}

// submitHedge fires the opposite-direction leg on the reference
// instrument, sized to match the primary leg's notional. A failed hedge
// never rolls back the primary position; the exposure is surfaced to the
// operator instead.
func (c *EntryController) submitHedge(ctx context.Context, pos Position, priceB float64) {
	hedgeQty := trading.HedgeQuantity(pos.Quantity, pos.EntryPrice, priceB)
	if hedgeQty <= 0 {
		logger.Errorf("hedge skipped: no usable price for %s (price=%v)", c.symbolB, priceB)
		c.notifyUnhedged(pos, fmt.Errorf("no usable hedge price %v", priceB))
		return
	}
	req := exchange.OrderRequest{
		Symbol:   c.symbolB,
		Side:     pos.Side.entrySide().Opposite(),
		Quantity: hedgeQty,
	}
	if _, err := c.exec.SubmitMarketOrder(ctx, req); err != nil {
		logger.Errorf("hedge order failed, primary %s stays unhedged: %v", pos.Symbol, err)
		c.notifyUnhedged(pos, err)
		return
	}
	logger.Infof("hedged %s with %s %s qty=%.6f", pos.Symbol, req.Side, c.symbolB, hedgeQty)
}

func (c *EntryController) notifyUnhedged(pos Position, cause error) {
	if err := c.notify.SendText(notifier.Anomaly(
		"unhedged exposure",
		fmt.Sprintf("primary: %s %s qty=%v entry=%v", pos.Side, pos.Symbol, pos.Quantity, pos.EntryPrice),
		fmt.Sprintf("hedge instrument: %s", c.symbolB),
		fmt.Sprintf("cause: %v", cause),
	)); err != nil {
		logger.Warnf("notify failed: %v", err)
	}
}
