package scheduler

import (
	"context"
	"time"

	"statarb/internal/logger"
)

// IntervalScheduler drives a task with a fixed delay between runs. The
// next run never starts before the previous one returns, which keeps the
// per-cycle position bookkeeping race-free.
type IntervalScheduler struct {
	Interval time.Duration

	ctx context.Context
}

func NewIntervalScheduler(ctx context.Context, interval time.Duration) *IntervalScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &IntervalScheduler{Interval: interval, ctx: ctx}
}

func (s *IntervalScheduler) Start(task func()) {
	if s == nil {
		return
	}
	if task == nil {
		logger.Warnf("IntervalScheduler: task is nil, exit")
		return
	}
	if s.Interval <= 0 {
		logger.Warnf("IntervalScheduler: invalid interval=%s, exit", s.Interval)
		return
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	logger.Infof("IntervalScheduler: started interval=%s", s.Interval)
	for {
		task()

		timer := time.NewTimer(s.Interval)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			logger.Infof("IntervalScheduler: ctx done, exit")
			return
		case <-timer.C:
		}
	}
}
