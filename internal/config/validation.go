package config

import (
	"fmt"
	"strings"

	"statarb/internal/pkg/symbol"
)

func validate(c *Config) error {
	if err := c.Market.validate(); err != nil {
		return err
	}
	if err := c.Strategy.validate(); err != nil {
		return err
	}
	if err := c.Trading.validate(); err != nil {
		return err
	}
	if err := c.Notify.validate(); err != nil {
		return err
	}
	return nil
}

func (m *MarketConfig) validate() error {
	if symbol.Normalize(m.SymbolA) == "" {
		return fmt.Errorf("market.symbol_a is not a valid pair: %q", m.SymbolA)
	}
	if symbol.Normalize(m.SymbolB) == "" {
		return fmt.Errorf("market.symbol_b is not a valid pair: %q", m.SymbolB)
	}
	if symbol.Normalize(m.SymbolA) == symbol.Normalize(m.SymbolB) {
		return fmt.Errorf("market.symbol_a and market.symbol_b must differ")
	}
	if strings.TrimSpace(m.Interval) == "" {
		return fmt.Errorf("market.interval is required")
	}
	if m.HistoryLimit < 2 {
		return fmt.Errorf("market.history_limit must be >= 2")
	}
	return nil
}

func (s *StrategyConfig) validate() error {
	if s.Lookback < 1 {
		return fmt.Errorf("strategy.lookback must be >= 1")
	}
	if s.ATRPeriod < 1 {
		return fmt.Errorf("strategy.atr_period must be >= 1")
	}
	if s.SigmaThreshold <= 0 {
		return fmt.Errorf("strategy.sigma_threshold must be > 0")
	}
	return nil
}

func (t *TradingConfig) validate() error {
	if t.RiskAmount <= 0 {
		return fmt.Errorf("trading.risk_amount must be > 0")
	}
	if t.Leverage < 1 {
		return fmt.Errorf("trading.leverage must be >= 1")
	}
	if t.TPMultiplier <= 0 {
		return fmt.Errorf("trading.tp_multiplier must be > 0")
	}
	if t.SLMultiplier <= 0 {
		return fmt.Errorf("trading.sl_multiplier must be > 0")
	}
	if t.MaxPositions < 1 {
		return fmt.Errorf("trading.max_positions must be >= 1")
	}
	if t.CheckInterval <= 0 {
		return fmt.Errorf("trading.check_interval must be > 0")
	}
	return nil
}

func (n *NotifyConfig) validate() error {
	if !n.Telegram.Enabled {
		return nil
	}
	if strings.TrimSpace(n.Telegram.BotToken) == "" {
		return fmt.Errorf("notify.telegram.bot_token is required when telegram is enabled")
	}
	if strings.TrimSpace(n.Telegram.ChatID) == "" {
		return fmt.Errorf("notify.telegram.chat_id is required when telegram is enabled")
	}
	return nil
}
