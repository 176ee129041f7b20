package app

import (
	"context"
	"fmt"

	"statarb/internal/config"
	"statarb/internal/engine"
	"statarb/internal/gateway/binance"
	"statarb/internal/logger"
	"statarb/internal/market"
	"statarb/internal/scheduler"
	"statarb/internal/store/gormstore"
)

// LiveService drives the decision loop: refresh market data into the pair
// store, then hand one aligned view of it to the engine.
type LiveService struct {
	cfg      *config.Config
	source   market.Source
	executor *binance.Executor
	store    *market.PairStore
	engine   *engine.Engine
	journal  *gormstore.GormStore
}

// Run applies the account leverage, then cycles until ctx is canceled.
func (s *LiveService) Run(ctx context.Context) error {
	if err := s.setupLeverage(ctx); err != nil {
		return err
	}
	logger.InfoBlock(fmt.Sprintf(
		"live loop\npair: %s / %s\ninterval: %s\nlookback: %d\ncycle every: %s",
		s.cfg.Market.SymbolA, s.cfg.Market.SymbolB,
		s.cfg.Market.Interval, s.cfg.Strategy.Lookback, s.cfg.Trading.CheckInterval))

	sched := scheduler.NewIntervalScheduler(ctx, s.cfg.Trading.CheckInterval)
	sched.Start(func() {
		s.runCycle(ctx)
	})
	return ctx.Err()
}

// setupLeverage configures both instruments once at startup. A failure is
// fatal: trading at an unknown leverage mis-sizes every exit PnL.
func (s *LiveService) setupLeverage(ctx context.Context) error {
	for _, sym := range []string{s.cfg.Market.SymbolA, s.cfg.Market.SymbolB} {
		if err := s.executor.SetLeverage(ctx, sym, s.cfg.Trading.Leverage); err != nil {
			return fmt.Errorf("set leverage %dx on %s: %w", s.cfg.Trading.Leverage, sym, err)
		}
		logger.Infof("leverage set to %dx on %s", s.cfg.Trading.Leverage, sym)
	}
	return nil
}

func (s *LiveService) runCycle(ctx context.Context) {
	if err := s.refresh(ctx); err != nil {
		logger.Warnf("cycle skipped, market refresh failed: %v", err)
		return
	}

	quoteA, quoteB, ok := s.store.Quotes()
	if !ok {
		logger.Warnf("cycle skipped, no live quotes yet")
		return
	}
	// A short or misaligned cache still runs the cycle: the engine falls
	// back to exit checks only and opens nothing.
	candlesA, candlesB, err := s.store.Series(s.cfg.Strategy.Lookback)
	if err != nil {
		logger.Warnf("spread statistics unavailable this cycle: %v", err)
		candlesA, candlesB = nil, nil
	}

	result, err := s.engine.RunCycle(ctx, candlesA, candlesB, quoteA, quoteB)
	if err != nil {
		logger.Errorf("cycle failed: %v", err)
		return
	}
	if result.PositionsOpened > 0 || result.PositionsClosed > 0 {
		logger.Infof("cycle done | signal=%s opened=%d closed=%d",
			result.Signal, result.PositionsOpened, result.PositionsClosed)
	}
}

// refresh pulls fresh history and quotes for both legs into the store.
func (s *LiveService) refresh(ctx context.Context) error {
	for _, sym := range []string{s.cfg.Market.SymbolA, s.cfg.Market.SymbolB} {
		candles, err := s.source.FetchHistory(ctx, sym, s.cfg.Market.Interval, s.cfg.Market.HistoryLimit)
		if err != nil {
			return fmt.Errorf("fetch history %s: %w", sym, err)
		}
		if len(candles) < s.cfg.Strategy.Lookback {
			logger.Warnf("only %d/%d closed candles for %s, statistics stay partial",
				len(candles), s.cfg.Strategy.Lookback, sym)
		}
		if err := s.store.SetHistory(sym, candles); err != nil {
			return fmt.Errorf("cache history %s: %w", sym, err)
		}
	}

	quoteA, err := s.source.FetchQuote(ctx, s.cfg.Market.SymbolA)
	if err != nil {
		return fmt.Errorf("fetch quote %s: %w", s.cfg.Market.SymbolA, err)
	}
	quoteB, err := s.source.FetchQuote(ctx, s.cfg.Market.SymbolB)
	if err != nil {
		return fmt.Errorf("fetch quote %s: %w", s.cfg.Market.SymbolB, err)
	}
	return s.store.SetQuotes(quoteA, quoteB)
}

// Close releases the gateway client and the journal handle.
func (s *LiveService) Close() {
	if s == nil {
		return
	}
	if s.source != nil {
		if err := s.source.Close(); err != nil {
			logger.Warnf("close market source: %v", err)
		}
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			logger.Warnf("close trade journal: %v", err)
		}
	}
}
