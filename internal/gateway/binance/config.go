package binance

import "time"

// Config controls the futures REST client.
type Config struct {
	RESTBaseURL    string
	APIKey         string
	APISecret      string
	HTTPTimeout    time.Duration
	ProxyEnabled   bool
	RESTProxyURL   string
	BreakerTrips   int
	BreakerTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.RESTBaseURL == "" {
		c.RESTBaseURL = "https://fapi.binance.com"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 15 * time.Second
	}
	if c.BreakerTrips <= 0 {
		c.BreakerTrips = 5
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	return c
}
