package engine

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"statarb/internal/gateway/exchange"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) SubmitMarketOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(exchange.OrderResult), args.Error(1)
}

func (m *MockExecutor) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	args := m.Called(ctx, symbol, leverage)
	return args.Error(0)
}

// memoryJournal records journal calls for assertions.
type memoryJournal struct {
	mu     sync.Mutex
	opens  []Position
	closes []closeRecord
}

type closeRecord struct {
	pos       Position
	exitPrice float64
	pnl       float64
	reason    string
}

func (j *memoryJournal) RecordOpen(_ context.Context, pos Position) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.opens = append(j.opens, pos)
	return nil
}

func (j *memoryJournal) RecordClose(_ context.Context, pos Position, exitPrice, pnl float64, reason string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closes = append(j.closes, closeRecord{pos: pos, exitPrice: exitPrice, pnl: pnl, reason: reason})
	return nil
}

// memoryNotifier captures anomaly texts.
type memoryNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *memoryNotifier) SendText(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *memoryNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.texts))
	copy(out, n.texts)
	return out
}
