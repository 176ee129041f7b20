package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statarb/internal/market"
)

func candlesFromCloses(closes []float64) []market.Candle {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	minute := time.Minute.Milliseconds()
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			OpenTime:  start + int64(i)*minute,
			CloseTime: start + int64(i+1)*minute - 1,
			Open:      c,
			High:      c + 0.1,
			Low:       c - 0.1,
			Close:     c,
			Volume:    1,
		}
	}
	return out
}

var (
	testClosesA = []float64{10, 10.2, 10.4, 10.6}
	testClosesB = []float64{100, 100.5, 101, 101.2}
)

func TestComputeKnownValues(t *testing.T) {
	est, err := NewEstimator(3, 3)
	require.NoError(t, err)

	snap, err := est.Compute(candlesFromCloses(testClosesA), candlesFromCloses(testClosesB), 10.7, 101.5)
	require.NoError(t, err)

	assert.InDelta(t, 0.18836462268025583, snap.HedgeRatio, 1e-12)
	assert.InDelta(t, 1.4725444689092868, snap.Mean, 1e-9)
	assert.InDelta(t, 0.01857950115036609, snap.StdDev, 1e-9)
	assert.InDelta(t, 1.4999881091312322, snap.CurrentSpread, 1e-12)
	// TR is [0.2, 0.3, 0.3, 0.3] with high/low at close +/- 0.1.
	assert.InDelta(t, 0.3, snap.ATR, 1e-9)

	sig := Classify(snap.CurrentSpread, snap.Mean, snap.StdDev, 1.0)
	assert.Equal(t, Bearish, sig, "spread above mean + 1 sigma")
}

func TestComputeDeterministic(t *testing.T) {
	est, err := NewEstimator(3, 3)
	require.NoError(t, err)

	a := candlesFromCloses(testClosesA)
	b := candlesFromCloses(testClosesB)
	first, err := est.Compute(a, b, 10.7, 101.5)
	require.NoError(t, err)
	second, err := est.Compute(a, b, 10.7, 101.5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeEmptySeries(t *testing.T) {
	est, err := NewEstimator(3, 3)
	require.NoError(t, err)

	_, err = est.Compute(nil, candlesFromCloses(testClosesB), 10.7, 101.5)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = est.Compute(candlesFromCloses(testClosesA), nil, 10.7, 101.5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestComputeInvalidLivePrice(t *testing.T) {
	est, err := NewEstimator(3, 3)
	require.NoError(t, err)
	a := candlesFromCloses(testClosesA)
	b := candlesFromCloses(testClosesB)

	_, err = est.Compute(a, b, 0, 101.5)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = est.Compute(a, b, 10.7, -1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestComputeMisalignedSeries(t *testing.T) {
	est, err := NewEstimator(3, 3)
	require.NoError(t, err)

	_, err = est.Compute(candlesFromCloses(testClosesA), candlesFromCloses(testClosesB[:3]), 10.7, 101.5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestComputeDegenerateVariance(t *testing.T) {
	est, err := NewEstimator(3, 3)
	require.NoError(t, err)

	// Constant reference closes have zero return variance.
	flat := candlesFromCloses([]float64{100, 100, 100, 100})
	_, err = est.Compute(candlesFromCloses(testClosesA), flat, 10.7, 100)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestComputeShortLookbackYieldsNaNStats(t *testing.T) {
	est, err := NewEstimator(10, 3)
	require.NoError(t, err)

	snap, err := est.Compute(candlesFromCloses(testClosesA), candlesFromCloses(testClosesB), 10.7, 101.5)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(snap.Mean))
	assert.True(t, math.IsNaN(snap.StdDev))
	// NaN statistics must classify as neutral.
	assert.Equal(t, Neutral, Classify(snap.CurrentSpread, snap.Mean, snap.StdDev, 1.0))
}

func TestNewEstimatorRejectsBadWindows(t *testing.T) {
	_, err := NewEstimator(0, 14)
	assert.Error(t, err)
	_, err = NewEstimator(500, 0)
	assert.Error(t, err)
}

func TestTrueRangeFirstBar(t *testing.T) {
	candles := candlesFromCloses([]float64{10, 12})
	tr := trueRange(candles)
	require.Len(t, tr, 2)
	// First bar falls back to high-low.
	assert.InDelta(t, 0.2, tr[0], 1e-12)
	// Second bar is dominated by the gap from the previous close.
	assert.InDelta(t, 2.1, tr[1], 1e-12)
}
