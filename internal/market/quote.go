package market

import (
	"errors"
	"fmt"
)

var ErrInvalidQuote = errors.New("invalid quote")

// Quote is the current best bid/ask for one instrument.
type Quote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Validate enforces bid > 0, ask > 0, bid <= ask. A violating quote is
// never coerced into a usable price.
func (q Quote) Validate() error {
	if q.Bid <= 0 || q.Ask <= 0 || q.Bid > q.Ask {
		return fmt.Errorf("%w: bid=%v ask=%v", ErrInvalidQuote, q.Bid, q.Ask)
	}
	return nil
}

// Mid returns the mid-price of a valid quote, 0 otherwise.
func (q Quote) Mid() float64 {
	if q.Validate() != nil {
		return 0
	}
	return (q.Bid + q.Ask) / 2
}
