package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher is something the warmer keeps fresh
type Refresher interface {
	RefreshGenres(ctx context.Context) error
}

// Warmer periodically refreshes the genre table so page requests rarely pay
// for the lookup
type Warmer struct {
	target   Refresher
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewWarmer creates a warmer; it does nothing until Start
func NewWarmer(target Refresher, interval time.Duration, logger *zap.Logger) *Warmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warmer{
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Start refreshes once and then on every tick until Stop or ctx is done
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("warmer already running")
	}
	if w.interval <= 0 {
		return fmt.Errorf("warmer interval must be positive")
	}

	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.run(ctx, w.stopChan, w.done)

	return nil
}

// Stop stops the warmer and waits for the loop to exit
func (w *Warmer) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopChan)
	done := w.done
	w.running = false
	w.mu.Unlock()

	<-done
}

// run is the main warmer loop
func (w *Warmer) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Warmer) refresh(ctx context.Context) {
	start := time.Now()
	if err := w.target.RefreshGenres(ctx); err != nil {
		w.logger.Warn("genre refresh failed", zap.Error(err))
		return
	}
	w.logger.Debug("genre table refreshed", zap.Duration("duration", time.Since(start)))
}
