package market

import (
	"errors"
	"fmt"
)

// Candle is one OHLCV bar for one instrument. Immutable once recorded.
type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

var (
	ErrShortSeries = errors.New("price series shorter than required window")
	ErrMisaligned  = errors.New("price series are not aligned")
)

// ValidateSeries checks the chronological-order invariant: open times must
// be monotonically non-decreasing.
func ValidateSeries(candles []Candle) error {
	for i := 1; i < len(candles); i++ {
		if candles[i].OpenTime < candles[i-1].OpenTime {
			return fmt.Errorf("candle %d out of order: %d < %d", i, candles[i].OpenTime, candles[i-1].OpenTime)
		}
	}
	return nil
}

// Closes extracts the close-price series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
