package market

import (
	"fmt"
	"strings"
	"sync"
)

// PairStore holds the last maxCached aligned candles for the traded
// instrument (A) and its hedge reference (B), plus the latest quote for
// each. It is a data holder: validation on write, copies on read.
type PairStore struct {
	symbolA   string
	symbolB   string
	maxCached int

	mu      sync.RWMutex
	a       []Candle
	b       []Candle
	quoteA  Quote
	quoteB  Quote
	haveA   bool
	haveB   bool
	haveQts bool
}

func NewPairStore(symbolA, symbolB string, maxCached int) (*PairStore, error) {
	symbolA = strings.TrimSpace(symbolA)
	symbolB = strings.TrimSpace(symbolB)
	if symbolA == "" || symbolB == "" {
		return nil, fmt.Errorf("pair store requires both symbols")
	}
	if symbolA == symbolB {
		return nil, fmt.Errorf("pair store symbols must differ")
	}
	if maxCached < 2 {
		return nil, fmt.Errorf("pair store maxCached must be >= 2")
	}
	return &PairStore{symbolA: symbolA, symbolB: symbolB, maxCached: maxCached}, nil
}

func (s *PairStore) SymbolA() string { return s.symbolA }
func (s *PairStore) SymbolB() string { return s.symbolB }

// SetHistory replaces the cached series for one of the two instruments,
// keeping at most maxCached trailing candles.
func (s *PairStore) SetHistory(sym string, candles []Candle) error {
	if err := ValidateSeries(candles); err != nil {
		return err
	}
	if len(candles) > s.maxCached {
		candles = candles[len(candles)-s.maxCached:]
	}
	cp := make([]Candle, len(candles))
	copy(cp, candles)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch sym {
	case s.symbolA:
		s.a = cp
		s.haveA = true
	case s.symbolB:
		s.b = cp
		s.haveB = true
	default:
		return fmt.Errorf("unknown symbol %q", sym)
	}
	return nil
}

// SetQuotes records the latest validated quotes for both instruments.
func (s *PairStore) SetQuotes(quoteA, quoteB Quote) error {
	if err := quoteA.Validate(); err != nil {
		return fmt.Errorf("%s: %w", s.symbolA, err)
	}
	if err := quoteB.Validate(); err != nil {
		return fmt.Errorf("%s: %w", s.symbolB, err)
	}
	s.mu.Lock()
	s.quoteA = quoteA
	s.quoteB = quoteB
	s.haveQts = true
	s.mu.Unlock()
	return nil
}

// Series returns aligned copies of both candle series. It fails when
// either series is missing, shorter than minLen, or the lengths differ.
func (s *PairStore) Series(minLen int) ([]Candle, []Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveA || !s.haveB {
		return nil, nil, fmt.Errorf("%w: history not loaded", ErrShortSeries)
	}
	if len(s.a) != len(s.b) {
		return nil, nil, fmt.Errorf("%w: lenA=%d lenB=%d", ErrMisaligned, len(s.a), len(s.b))
	}
	if len(s.a) < minLen {
		return nil, nil, fmt.Errorf("%w: have %d, need %d", ErrShortSeries, len(s.a), minLen)
	}
	a := make([]Candle, len(s.a))
	b := make([]Candle, len(s.b))
	copy(a, s.a)
	copy(b, s.b)
	return a, b, nil
}

// Quotes returns the latest quote pair; ok is false until both arrive.
func (s *PairStore) Quotes() (Quote, Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quoteA, s.quoteB, s.haveQts
}
