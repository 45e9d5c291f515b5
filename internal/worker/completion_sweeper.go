package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
)

// EventCompleter moves published events whose booking window has closed to COMPLETED.
type EventCompleter interface {
	CompleteEnded(ctx context.Context) (int, error)
}

// CompletionSweeper periodically completes ended events. It is an opt-in
// driver; an external scheduler calling the admin endpoint works equally.
type CompletionSweeper struct {
	completer EventCompleter
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

func NewCompletionSweeper(completer EventCompleter, interval time.Duration) *CompletionSweeper {
	return &CompletionSweeper{
		completer: completer,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called.
func (s *CompletionSweeper) Start(ctx context.Context) {
	defer close(s.doneCh)
	logger.Info("completion sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("completion sweeper stopped", zap.String("reason", "context cancelled"))
			return
		case <-s.stopCh:
			logger.Info("completion sweeper stopped", zap.String("reason", "stop requested"))
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop signals the loop and waits for it to exit. Start must have been called.
func (s *CompletionSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

func (s *CompletionSweeper) sweep(ctx context.Context) {
	count, err := s.completer.CompleteEnded(ctx)
	if err != nil {
		logger.Error("completion sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info("completed ended events", zap.Int("count", count))
	} else {
		logger.Debug("no ended events to complete")
	}
}
