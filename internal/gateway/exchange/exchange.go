// Package exchange defines the execution abstraction the engine trades
// through, together with the retryable/fatal error taxonomy.
package exchange

import (
	"context"
	"errors"
	"fmt"
)

// Side is the order direction on the venue.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the closing direction for an entry side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderRequest describes a market order.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Quantity float64
}

// OrderResult is the venue's acknowledgement of an accepted order.
type OrderResult struct {
	OrderID string
}

// Executor submits orders and configures leverage on one venue.
type Executor interface {
	SubmitMarketOrder(ctx context.Context, req OrderRequest) (OrderResult, error)

	SetLeverage(ctx context.Context, symbol string, leverage int) error
}

// Execution failures come in two classes. Retryable ones (network,
// rate limit, venue hiccup) leave all position state untouched and are
// retried on the next cycle. Fatal ones (rejected order, insufficient
// balance) are operator-visible anomalies.
var (
	ErrRetryable = errors.New("retryable execution failure")
	ErrFatal     = errors.New("fatal execution failure")
)

func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}

func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFatal, err)
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
