package strategy

import "math"

// Signal is the directional classification of the current spread.
type Signal int

const (
	Neutral Signal = iota
	Bullish
	Bearish
)

func (s Signal) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Classify compares the current spread against the mu +/- k*sigma band.
// Any NaN input yields Neutral; this is the only path that downgrades a
// would-be signal. Values exactly on a bound are Neutral.
func Classify(currentSpread, mean, stdDev, sigmaThreshold float64) Signal {
	if math.IsNaN(currentSpread) || math.IsNaN(mean) || math.IsNaN(stdDev) {
		return Neutral
	}
	lower := mean - sigmaThreshold*stdDev
	upper := mean + sigmaThreshold*stdDev
	switch {
	case currentSpread < lower:
		return Bullish
	case currentSpread > upper:
		return Bearish
	default:
		return Neutral
	}
}
