// Package strategy computes the hedge-ratio spread statistics and the
// directional signal for one instrument pair.
package strategy

import (
	"errors"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"statarb/internal/market"
)

// ErrUnavailable marks inputs from which no usable spread statistics can
// be derived. Callers skip the trading decision for the cycle.
var ErrUnavailable = errors.New("spread statistics unavailable")

// Snapshot is one cycle's derived spread state. Mean, StdDev and ATR are
// NaN where fewer observations than their windows are available.
type Snapshot struct {
	HedgeRatio    float64 `json:"hedge_ratio"`
	CurrentSpread float64 `json:"current_spread"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	ATR           float64 `json:"atr"`
}

// Estimator derives spread statistics from two aligned candle series and
// the pair's live mid-prices. It holds no state between calls.
type Estimator struct {
	lookback  int
	atrPeriod int
}

func NewEstimator(lookback, atrPeriod int) (*Estimator, error) {
	if lookback < 1 {
		return nil, fmt.Errorf("lookback must be >= 1, got %d", lookback)
	}
	if atrPeriod < 1 {
		return nil, fmt.Errorf("atr period must be >= 1, got %d", atrPeriod)
	}
	return &Estimator{lookback: lookback, atrPeriod: atrPeriod}, nil
}

// Compute produces a Snapshot, or ErrUnavailable when either series is
// empty, either live price is non-positive, the series are misaligned, or
// the reference return variance is degenerate.
func (e *Estimator) Compute(candlesA, candlesB []market.Candle, midA, midB float64) (Snapshot, error) {
	if len(candlesA) == 0 || len(candlesB) == 0 {
		return Snapshot{}, fmt.Errorf("%w: empty series", ErrUnavailable)
	}
	if midA <= 0 || midB <= 0 {
		return Snapshot{}, fmt.Errorf("%w: non-positive live price (a=%v b=%v)", ErrUnavailable, midA, midB)
	}
	if len(candlesA) != len(candlesB) {
		return Snapshot{}, fmt.Errorf("%w: series length mismatch (%d vs %d)", ErrUnavailable, len(candlesA), len(candlesB))
	}

	n := len(candlesA)
	logA := make([]float64, n)
	logB := make([]float64, n)
	for i := 0; i < n; i++ {
		logA[i] = math.Log(candlesA[i].Close)
		logB[i] = math.Log(candlesB[i].Close)
	}

	retA := diff(logA)
	retB := diff(logB)
	varB := sampleVariance(retB)
	if !(varB > 0) {
		return Snapshot{}, fmt.Errorf("%w: degenerate reference variance", ErrUnavailable)
	}
	beta := sampleCovariance(retA, retB) / varB

	spread := make([]float64, n)
	for i := 0; i < n; i++ {
		spread[i] = logA[i] - beta*logB[i]
	}

	snap := Snapshot{
		HedgeRatio:    beta,
		CurrentSpread: math.Log(midA) - beta*math.Log(midB),
		Mean:          rollingMean(spread, e.lookback),
		StdDev:        rollingSampleStdDev(spread, e.lookback),
		ATR:           rollingMean(trueRange(candlesA), e.atrPeriod),
	}
	return snap, nil
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|) per bar;
// the first bar has no previous close and uses high-low alone.
func trueRange(candles []market.Candle) []float64 {
	tr := make([]float64, len(candles))
	for i, c := range candles {
		hl := c.High - c.Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		prevClose := candles[i-1].Close
		tr[i] = math.Max(hl, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return tr
}

// rollingMean returns the trailing simple mean over the last period
// values, NaN when fewer observations exist.
func rollingMean(series []float64, period int) float64 {
	if len(series) < period {
		return math.NaN()
	}
	if period == 1 {
		return series[len(series)-1]
	}
	sma := talib.Sma(series, period)
	return sma[len(sma)-1]
}

// rollingSampleStdDev is the sample (N-1) standard deviation over the
// trailing window. talib.StdDev is the population form, which is not what
// the rolling spread statistics are defined with, so this stays local.
func rollingSampleStdDev(series []float64, period int) float64 {
	if period < 2 || len(series) < period {
		return math.NaN()
	}
	window := series[len(series)-period:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)
	sum := 0.0
	for _, v := range window {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(period-1))
}

func diff(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

func sampleVariance(series []float64) float64 {
	return sampleCovariance(series, series)
}

func sampleCovariance(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	mx, my := 0.0, 0.0
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))
	sum := 0.0
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x)-1)
}
