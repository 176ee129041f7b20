// Package binance adapts the Binance USD-M futures API to the market
// Source and exchange Executor interfaces.
package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"statarb/internal/market"
	symbolpkg "statarb/internal/pkg/symbol"
	"statarb/internal/scheduler"

	"github.com/adshao/go-binance/v2/futures"
)

const maxHistoryLimit = 1500

// Source implements market.Source over the futures REST API.
type Source struct {
	cfg    Config
	client *futures.Client
}

func New(cfg Config) (*Source, error) {
	final := cfg.withDefaults()
	client := futures.NewClient(final.APIKey, final.APISecret)
	client.BaseURL = strings.TrimSpace(final.RESTBaseURL)
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyEnabled && final.RESTProxyURL != "" {
		proxyURL, err := url.Parse(final.RESTProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REST proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	client.HTTPClient = httpClient
	return &Source{
		cfg:    final,
		client: client,
	}, nil
}

func (s *Source) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	// Binance requires symbols without slashes (e.g., ALCHUSDT)
	cleanSymbol := symbolpkg.ToBinance(symbol)

	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	svc := s.client.NewKlinesService().Symbol(cleanSymbol).Interval(interval).Limit(limit)
	kls, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]market.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		c := market.Candle{
			OpenTime:  kl.OpenTime,
			CloseTime: kl.CloseTime,
			Open:      parseFloat(kl.Open),
			High:      parseFloat(kl.High),
			Low:       parseFloat(kl.Low),
			Close:     parseFloat(kl.Close),
			Volume:    parseFloat(kl.Volume),
		}
		out = append(out, c)
	}
	if dur, ok := scheduler.ParseIntervalDuration(interval); ok {
		out = scheduler.DropUnclosedKline(out, dur)
	}
	return out, nil
}

// FetchQuote returns the best bid/ask from the book-ticker endpoint. The
// quote is validated; a crossed or non-positive book is an error, never a
// usable price.
func (s *Source) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	cleanSymbol := symbolpkg.ToBinance(symbol)
	if cleanSymbol == "" {
		return market.Quote{}, fmt.Errorf("symbol is required")
	}
	tickers, err := s.client.NewListBookTickersService().Symbol(cleanSymbol).Do(ctx)
	if err != nil {
		return market.Quote{}, err
	}
	if len(tickers) == 0 || tickers[0] == nil {
		return market.Quote{}, fmt.Errorf("%w: no book ticker for %s", market.ErrInvalidQuote, symbol)
	}
	q := market.Quote{
		Bid: parseFloat(tickers[0].BidPrice),
		Ask: parseFloat(tickers[0].AskPrice),
	}
	if err := q.Validate(); err != nil {
		return market.Quote{}, fmt.Errorf("%s: %w", symbol, err)
	}
	return q, nil
}

func (s *Source) Close() error {
	return nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
