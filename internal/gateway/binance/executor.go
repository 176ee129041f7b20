package binance

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"statarb/internal/gateway/exchange"
	"statarb/internal/logger"
	"statarb/internal/pkg/circuit"
	symbolpkg "statarb/internal/pkg/symbol"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

// Executor implements exchange.Executor over the futures order API. A
// circuit breaker guards submissions: while open, orders fail fast as
// retryable without touching the wire.
type Executor struct {
	client  *futures.Client
	breaker *circuit.CircuitBreaker
}

var errCircuitOpen = errors.New("order circuit breaker open")

func NewExecutor(src *Source) *Executor {
	return &Executor{
		client:  src.client,
		breaker: circuit.NewCircuitBreaker("binance-orders", src.cfg.BreakerTrips, src.cfg.BreakerTimeout),
	}
}

func (e *Executor) SubmitMarketOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderResult, error) {
	cleanSymbol := symbolpkg.ToBinance(req.Symbol)
	if cleanSymbol == "" {
		return exchange.OrderResult{}, exchange.Fatal(fmt.Errorf("invalid symbol %q", req.Symbol))
	}
	if req.Quantity <= 0 {
		return exchange.OrderResult{}, exchange.Fatal(fmt.Errorf("invalid quantity %v", req.Quantity))
	}
	if !e.breaker.Allow() {
		return exchange.OrderResult{}, exchange.Retryable(errCircuitOpen)
	}

	side := futures.SideTypeBuy
	if req.Side == exchange.Sell {
		side = futures.SideTypeSell
	}
	resp, err := e.client.NewCreateOrderService().
		Symbol(cleanSymbol).
		Side(side).
		Type(futures.OrderTypeMarket).
		Quantity(strconv.FormatFloat(req.Quantity, 'f', -1, 64)).
		Do(ctx)
	if err != nil {
		classified := classifyError(err)
		if exchange.IsRetryable(classified) {
			e.breaker.RecordFailure()
		}
		return exchange.OrderResult{}, classified
	}
	e.breaker.RecordSuccess()
	logger.Debugf("order accepted: %s %s qty=%v id=%d", req.Symbol, req.Side, req.Quantity, resp.OrderID)
	return exchange.OrderResult{OrderID: strconv.FormatInt(resp.OrderID, 10)}, nil
}

func (e *Executor) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	cleanSymbol := symbolpkg.ToBinance(symbol)
	if cleanSymbol == "" {
		return exchange.Fatal(fmt.Errorf("invalid symbol %q", symbol))
	}
	if leverage < 1 {
		return exchange.Fatal(fmt.Errorf("invalid leverage %d", leverage))
	}
	_, err := e.client.NewChangeLeverageService().Symbol(cleanSymbol).Leverage(leverage).Do(ctx)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// classifyError maps venue failures onto the retryable/fatal taxonomy.
// Transport-level errors are retryable; API rejections are fatal unless
// the code is a known transient condition.
func classifyError(err error) error {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return exchange.Retryable(err)
	}
	switch apiErr.Code {
	case -1000, // UNKNOWN (internal error)
		-1001, // DISCONNECTED
		-1003, // TOO_MANY_REQUESTS
		-1007, // TIMEOUT
		-1015, // TOO_MANY_ORDERS (rate)
		-1021: // timestamp outside recvWindow
		return exchange.Retryable(err)
	default:
		return exchange.Fatal(err)
	}
}
