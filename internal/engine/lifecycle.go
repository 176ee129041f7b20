package engine

import (
	"context"
	"fmt"

	"statarb/internal/gateway/exchange"
	"statarb/internal/gateway/notifier"
	"statarb/internal/logger"
	"statarb/internal/pkg/trading"
)

const (
	exitTakeProfit = "take_profit"
	exitStopLoss   = "stop_loss"
)

// LifecycleManager evaluates open positions against live price and closes
// the ones whose take-profit or stop-loss has triggered.
type LifecycleManager struct {
	ledger   *Ledger
	exec     exchange.Executor
	journal  Journal
	notify   notifier.TextNotifier
	leverage float64
}

func NewLifecycleManager(ledger *Ledger, exec exchange.Executor, journal Journal, notify notifier.TextNotifier, leverage int) *LifecycleManager {
	if journal == nil {
		journal = NoopJournal{}
	}
	if notify == nil {
		notify = notifier.Noop{}
	}
	if leverage < 1 {
		leverage = 1
	}
	return &LifecycleManager{
		ledger:   ledger,
		exec:     exec,
		journal:  journal,
		notify:   notify,
		leverage: float64(leverage),
	}
}

// exitReason reports whether the position should close at this price.
func (p Position) exitReason(price float64) (string, bool) {
	switch p.Side {
	case Long:
		if price >= p.TakeProfit {
			return exitTakeProfit, true
		}
		if price <= p.StopLoss {
			return exitStopLoss, true
		}
	case Short:
		if price <= p.TakeProfit {
			return exitTakeProfit, true
		}
		if price >= p.StopLoss {
			return exitStopLoss, true
		}
	}
	return "", false
}

// CheckExits runs one exit pass for the instrument and returns how many
// positions were closed. A position leaves the ledger only after the
// closing order is accepted; failed closes stay open for the next cycle.
func (m *LifecycleManager) CheckExits(ctx context.Context, symbol string, price float64) int {
	if price <= 0 {
		return 0
	}
	closed := 0
	for _, pos := range m.ledger.ForSymbol(symbol) {
		reason, triggered := pos.exitReason(price)
		if !triggered {
			continue
		}

		req := exchange.OrderRequest{
			Symbol:   pos.Symbol,
			Side:     pos.Side.entrySide().Opposite(),
			Quantity: pos.Quantity,
		}
		if _, err := m.exec.SubmitMarketOrder(ctx, req); err != nil {
			if exchange.IsRetryable(err) {
				logger.Warnf("close %s %s deferred, will retry next cycle: %v", pos.Side, pos.Symbol, err)
				continue
			}
			logger.Errorf("close %s %s failed permanently, position stays open: %v", pos.Side, pos.Symbol, err)
			if nerr := m.notify.SendText(notifier.Anomaly(
				"position close rejected",
				fmt.Sprintf("symbol: %s", pos.Symbol),
				fmt.Sprintf("side: %s qty: %v", pos.Side, pos.Quantity),
				fmt.Sprintf("reason: %s", reason),
				fmt.Sprintf("error: %v", err),
			)); nerr != nil {
				logger.Warnf("notify failed: %v", nerr)
			}
			continue
		}

		pnl := trading.ProfitLoss(pos.EntryPrice, price, pos.Quantity, m.leverage, pos.Side == Short)
		logger.Infof("%s hit on %s %s | entry=%.6f exit=%.6f qty=%.6f pnl=%.4f",
			reason, pos.Side, pos.Symbol, pos.EntryPrice, price, pos.Quantity, pnl)
		if err := m.journal.RecordClose(ctx, pos, price, pnl, reason); err != nil {
			logger.Warnf("journal close record failed: %v", err)
		}
		m.ledger.Remove(pos.ID)
		closed++
	}
	return closed
}
