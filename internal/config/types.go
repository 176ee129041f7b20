package config

import "time"

// Config is the top-level configuration for the statarb engine.
type Config struct {
	App      AppConfig      `toml:"app"`
	Market   MarketConfig   `toml:"market"`
	Binance  BinanceConfig  `toml:"binance"`
	Strategy StrategyConfig `toml:"strategy"`
	Trading  TradingConfig  `toml:"trading"`
	Journal  JournalConfig  `toml:"journal"`
	Notify   NotifyConfig   `toml:"notify"`
	HTTP     HTTPConfig     `toml:"http"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

// MarketConfig names the instrument pair and the candle feed parameters.
// SymbolA is the traded instrument, SymbolB the hedge reference.
type MarketConfig struct {
	SymbolA      string `toml:"symbol_a"`
	SymbolB      string `toml:"symbol_b"`
	Interval     string `toml:"interval"`
	HistoryLimit int    `toml:"history_limit"`
}

type BinanceConfig struct {
	RESTBaseURL    string        `toml:"rest_base_url"`
	APIKey         string        `toml:"api_key"`
	APISecret      string        `toml:"api_secret"`
	HTTPTimeout    time.Duration `toml:"http_timeout"`
	ProxyEnabled   bool          `toml:"proxy_enabled"`
	RESTProxyURL   string        `toml:"rest_proxy_url"`
	BreakerTrips   int           `toml:"breaker_trips"`
	BreakerTimeout time.Duration `toml:"breaker_timeout"`
}

// StrategyConfig holds the spread-estimation parameters.
type StrategyConfig struct {
	Lookback       int     `toml:"lookback"`
	ATRPeriod      int     `toml:"atr_period"`
	SigmaThreshold float64 `toml:"sigma_threshold"`
}

// TradingConfig holds sizing and lifecycle parameters.
type TradingConfig struct {
	RiskAmount    float64       `toml:"risk_amount"`
	Leverage      int           `toml:"leverage"`
	TPMultiplier  float64       `toml:"tp_multiplier"`
	SLMultiplier  float64       `toml:"sl_multiplier"`
	MaxPositions  int           `toml:"max_positions"`
	CheckInterval time.Duration `toml:"check_interval"`
}

// JournalConfig controls the sqlite trade journal. Empty path disables it.
type JournalConfig struct {
	Path string `toml:"path"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

// HTTPConfig controls the status server. Empty listen disables it.
type HTTPConfig struct {
	Listen string `toml:"listen"`
}
