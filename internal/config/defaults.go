package config

import (
	"strings"
	"time"
)

// Defaults mirror the parameters the strategy was tuned with.
const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultSymbolA        = "ALCH/USDT"
	defaultSymbolB        = "BTC/USDT"
	defaultInterval       = "1m"
	defaultHistoryLimit   = 1000
	defaultMarketREST     = "https://fapi.binance.com"
	defaultHTTPTimeout    = 15 * time.Second
	defaultBreakerTrips   = 5
	defaultBreakerTimeout = 30 * time.Second
	defaultLookback       = 500
	defaultATRPeriod      = 14
	defaultSigma          = 1.0
	defaultRiskAmount     = 10.0
	defaultLeverage       = 5
	defaultTPMultiplier   = 2.0
	defaultSLMultiplier   = 1.0
	defaultMaxPositions   = 2
	defaultCheckInterval  = 100 * time.Millisecond
)

type keySet map[string]struct{}

func (k keySet) mark(key string) {
	k[key] = struct{}{}
}

func (k keySet) has(key string) bool {
	_, ok := k[key]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}

// applyFieldDefaults fills a default when the key was not present in the
// config files, or when the parsed value is unusable.
func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, d := range defs {
		if keys != nil && keys.has(d.key) {
			continue
		}
		if d.need == nil || d.need() {
			d.apply()
		}
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return strings.TrimSpace(*target) == "" },
		apply: func() { *target = def },
	}
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Market.applyDefaults(keys)
	c.Binance.applyDefaults(keys)
	c.Strategy.applyDefaults(keys)
	c.Trading.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
	)
}

func (m *MarketConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("market.symbol_a", &m.SymbolA, defaultSymbolA),
		stringFieldDefault("market.symbol_b", &m.SymbolB, defaultSymbolB),
		stringFieldDefault("market.interval", &m.Interval, defaultInterval),
		fieldDefault{
			key:   "market.history_limit",
			need:  func() bool { return m.HistoryLimit <= 0 },
			apply: func() { m.HistoryLimit = defaultHistoryLimit },
		},
	)
}

func (b *BinanceConfig) applyDefaults(keys keySet) {
	if b == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("binance.rest_base_url", &b.RESTBaseURL, defaultMarketREST),
		fieldDefault{
			key:   "binance.http_timeout",
			need:  func() bool { return b.HTTPTimeout <= 0 },
			apply: func() { b.HTTPTimeout = defaultHTTPTimeout },
		},
		fieldDefault{
			key:   "binance.breaker_trips",
			need:  func() bool { return b.BreakerTrips <= 0 },
			apply: func() { b.BreakerTrips = defaultBreakerTrips },
		},
		fieldDefault{
			key:   "binance.breaker_timeout",
			need:  func() bool { return b.BreakerTimeout <= 0 },
			apply: func() { b.BreakerTimeout = defaultBreakerTimeout },
		},
	)
}

func (s *StrategyConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "strategy.lookback",
			need:  func() bool { return s.Lookback <= 0 },
			apply: func() { s.Lookback = defaultLookback },
		},
		fieldDefault{
			key:   "strategy.atr_period",
			need:  func() bool { return s.ATRPeriod <= 0 },
			apply: func() { s.ATRPeriod = defaultATRPeriod },
		},
		fieldDefault{
			key:   "strategy.sigma_threshold",
			need:  func() bool { return s.SigmaThreshold <= 0 },
			apply: func() { s.SigmaThreshold = defaultSigma },
		},
	)
}

func (t *TradingConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "trading.risk_amount",
			need:  func() bool { return t.RiskAmount <= 0 },
			apply: func() { t.RiskAmount = defaultRiskAmount },
		},
		fieldDefault{
			key:   "trading.leverage",
			need:  func() bool { return t.Leverage <= 0 },
			apply: func() { t.Leverage = defaultLeverage },
		},
		fieldDefault{
			key:   "trading.tp_multiplier",
			need:  func() bool { return t.TPMultiplier <= 0 },
			apply: func() { t.TPMultiplier = defaultTPMultiplier },
		},
		fieldDefault{
			key:   "trading.sl_multiplier",
			need:  func() bool { return t.SLMultiplier <= 0 },
			apply: func() { t.SLMultiplier = defaultSLMultiplier },
		},
		fieldDefault{
			key:   "trading.max_positions",
			need:  func() bool { return t.MaxPositions <= 0 },
			apply: func() { t.MaxPositions = defaultMaxPositions },
		},
		fieldDefault{
			key:   "trading.check_interval",
			need:  func() bool { return t.CheckInterval <= 0 },
			apply: func() { t.CheckInterval = defaultCheckInterval },
		},
	)
}
