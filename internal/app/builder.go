package app

import (
	"fmt"
	"strings"

	"statarb/internal/config"
	"statarb/internal/engine"
	"statarb/internal/gateway/binance"
	"statarb/internal/gateway/notifier"
	"statarb/internal/logger"
	"statarb/internal/market"
	"statarb/internal/store/gormstore"
	livehttp "statarb/internal/transport/http/live"
)

func buildApp(cfg *config.Config) (*App, error) {
	source, err := binance.New(binance.Config{
		RESTBaseURL:    cfg.Binance.RESTBaseURL,
		APIKey:         cfg.Binance.APIKey,
		APISecret:      cfg.Binance.APISecret,
		HTTPTimeout:    cfg.Binance.HTTPTimeout,
		ProxyEnabled:   cfg.Binance.ProxyEnabled,
		RESTProxyURL:   cfg.Binance.RESTProxyURL,
		BreakerTrips:   cfg.Binance.BreakerTrips,
		BreakerTimeout: cfg.Binance.BreakerTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build binance source: %w", err)
	}
	executor := binance.NewExecutor(source)

	notify := buildNotifier(cfg)
	journal, trades, err := buildJournal(cfg)
	if err != nil {
		return nil, err
	}

	store, err := market.NewPairStore(cfg.Market.SymbolA, cfg.Market.SymbolB, cfg.Market.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("build pair store: %w", err)
	}

	eng, err := engine.New(engine.Config{
		SymbolA:        cfg.Market.SymbolA,
		SymbolB:        cfg.Market.SymbolB,
		Lookback:       cfg.Strategy.Lookback,
		ATRPeriod:      cfg.Strategy.ATRPeriod,
		SigmaThreshold: cfg.Strategy.SigmaThreshold,
		RiskAmount:     cfg.Trading.RiskAmount,
		Leverage:       cfg.Trading.Leverage,
		TPMultiplier:   cfg.Trading.TPMultiplier,
		SLMultiplier:   cfg.Trading.SLMultiplier,
		MaxPositions:   cfg.Trading.MaxPositions,
	}, executor, journal, notify)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	live := &LiveService{
		cfg:      cfg,
		source:   source,
		executor: executor,
		store:    store,
		engine:   eng,
		journal:  trades,
	}

	var httpSrv *livehttp.Server
	if strings.TrimSpace(cfg.HTTP.Listen) != "" {
		httpSrv, err = livehttp.NewServer(livehttp.ServerConfig{
			Addr:   cfg.HTTP.Listen,
			Status: eng,
			Trades: tradeReader(trades),
		})
		if err != nil {
			return nil, fmt.Errorf("build live http server: %w", err)
		}
	}

	return &App{cfg: cfg, live: live, liveHTTP: httpSrv}, nil
}

func buildNotifier(cfg *config.Config) notifier.TextNotifier {
	tg := cfg.Notify.Telegram
	if !tg.Enabled {
		return notifier.Noop{}
	}
	logger.Infof("telegram notifier enabled for chat %s", tg.ChatID)
	return notifier.NewTelegram(tg.BotToken, tg.ChatID)
}

// buildJournal returns the journal used by the engine plus the concrete
// store for HTTP reads. With no path configured both are nil-equivalent.
func buildJournal(cfg *config.Config) (engine.Journal, *gormstore.GormStore, error) {
	path := strings.TrimSpace(cfg.Journal.Path)
	if path == "" {
		logger.Infof("trade journal disabled")
		return engine.NoopJournal{}, nil, nil
	}
	store, err := gormstore.NewGormStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("build trade journal: %w", err)
	}
	logger.Infof("trade journal at %s", path)
	return store, store, nil
}

// tradeReader keeps a nil *GormStore from becoming a non-nil interface.
func tradeReader(store *gormstore.GormStore) livehttp.TradeReader {
	if store == nil {
		return nil
	}
	return store
}
