package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"statarb/internal/gateway/exchange"
	"statarb/internal/gateway/notifier"
	"statarb/internal/logger"
	"statarb/internal/market"
	"statarb/internal/strategy"
)

// Config carries the per-pair decision parameters. All values are assumed
// validated by the config layer before the engine is built.
type Config struct {
	SymbolA        string
	SymbolB        string
	Lookback       int
	ATRPeriod      int
	SigmaThreshold float64
	RiskAmount     float64
	Leverage       int
	TPMultiplier   float64
	SLMultiplier   float64
	MaxPositions   int
}

// CycleResult summarizes one decision cycle.
type CycleResult struct {
	Signal          strategy.Signal
	PositionsOpened int
	PositionsClosed int
}

// CycleStatus is the last cycle's state as exposed over the status API.
type CycleStatus struct {
	Time          time.Time          `json:"time"`
	Signal        string             `json:"signal"`
	Snapshot      *strategy.Snapshot `json:"snapshot,omitempty"`
	OpenPositions int                `json:"open_positions"`
}

// Engine runs the decision cycle for one instrument pair: derive spread
// statistics, check exits on open positions, then attempt an entry.
type Engine struct {
	cfg       Config
	estimator *strategy.Estimator
	ledger    *Ledger
	lifecycle *LifecycleManager
	entry     *EntryController

	mu     sync.RWMutex
	status CycleStatus
}

func New(cfg Config, exec exchange.Executor, journal Journal, notify notifier.TextNotifier) (*Engine, error) {
	estimator, err := strategy.NewEstimator(cfg.Lookback, cfg.ATRPeriod)
	if err != nil {
		return nil, err
	}
	ledger := NewLedger(cfg.MaxPositions)
	return &Engine{
		cfg:       cfg,
		estimator: estimator,
		ledger:    ledger,
		lifecycle: NewLifecycleManager(ledger, exec, journal, notify, cfg.Leverage),
		entry: NewEntryController(ledger, exec, journal, notify,
			cfg.SymbolA, cfg.SymbolB, cfg.RiskAmount, cfg.TPMultiplier, cfg.SLMultiplier),
	}, nil
}

// RunCycle executes one full decision pass. Exit checks run on every cycle
// with a usable primary quote, including cycles where the spread statistics
// are unavailable; entries require a full snapshot.
func (e *Engine) RunCycle(ctx context.Context, candlesA, candlesB []market.Candle, quoteA, quoteB market.Quote) (CycleResult, error) {
	midA := quoteA.Mid()
	midB := quoteB.Mid()

	result := CycleResult{Signal: strategy.Neutral}
	snap, err := e.estimator.Compute(candlesA, candlesB, midA, midB)
	if err != nil {
		if !errors.Is(err, strategy.ErrUnavailable) {
			return result, err
		}
		logger.Warnf("cycle degraded, exits only: %v", err)
		result.PositionsClosed = e.lifecycle.CheckExits(ctx, e.cfg.SymbolA, midA)
		e.storeStatus(result, nil)
		return result, nil
	}

	result.Signal = strategy.Classify(snap.CurrentSpread, snap.Mean, snap.StdDev, e.cfg.SigmaThreshold)
	logger.Debugf("cycle %s/%s | beta=%.6f spread=%.6f mean=%.6f std=%.6f atr=%.6f signal=%s",
		e.cfg.SymbolA, e.cfg.SymbolB, snap.HedgeRatio, snap.CurrentSpread, snap.Mean, snap.StdDev, snap.ATR, result.Signal)

	result.PositionsClosed = e.lifecycle.CheckExits(ctx, e.cfg.SymbolA, midA)

	if result.Signal != strategy.Neutral {
		opened, err := e.entry.Open(ctx, result.Signal, midA, midB, snap.ATR)
		if err != nil {
			e.storeStatus(result, &snap)
			return result, err
		}
		result.PositionsOpened = opened
	}

	e.storeStatus(result, &snap)
	return result, nil
}

func (e *Engine) storeStatus(result CycleResult, snap *strategy.Snapshot) {
	e.mu.Lock()
	e.status = CycleStatus{
		Time:          time.Now().UTC(),
		Signal:        result.Signal.String(),
		Snapshot:      snap,
		OpenPositions: e.ledger.Count(),
	}
	e.mu.Unlock()
}

// LastStatus returns the most recent cycle state. The zero value is
// returned before the first cycle completes.
func (e *Engine) LastStatus() CycleStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Positions lists the currently open positions.
func (e *Engine) Positions() []Position {
	return e.ledger.Snapshot()
}
