package market

import "context"

// Source supplies candle history and live quotes for one venue.
type Source interface {
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)

	FetchQuote(ctx context.Context, symbol string) (Quote, error)

	Close() error
}
