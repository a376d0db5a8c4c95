package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/feichai0017/resume-extractor/pkg/logger"
)

var _ Worker = (*Janitor)(nil)

// Cleaner is any store that can drop entries older than a threshold.
type Cleaner interface {
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// Janitor periodically removes uploads that outlived the retention period,
// e.g. files left behind by a crash between save and delete.
type Janitor struct {
	target    Cleaner
	retention time.Duration
	interval  time.Duration
	logger    logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

func NewJanitor(target Cleaner, retention, interval time.Duration, log logger.Logger) *Janitor {
	return &Janitor{
		target:    target,
		retention: retention,
		interval:  interval,
		logger:    log.Named("janitor"),
		now:       time.Now,
	}
}

func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopChan != nil {
		return errors.New("janitor already started")
	}
	if j.interval <= 0 {
		return errors.New("janitor interval must be positive")
	}

	j.stopChan = make(chan struct{})
	j.done = make(chan struct{})
	go j.run(ctx, j.stopChan, j.done)

	j.logger.Info("Janitor started",
		logger.Duration("interval", j.interval),
		logger.Duration("retention", j.retention),
	)
	return nil
}

func (j *Janitor) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if err := j.Sweep(ctx); err != nil {
				j.logger.Warn("Sweep failed", logger.Error(err))
			}
		}
	}
}

// Sweep runs one cleanup pass.
func (j *Janitor) Sweep(ctx context.Context) error {
	return j.target.CleanupBefore(ctx, j.now().Add(-j.retention))
}

func (j *Janitor) Stop() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopChan == nil {
		return nil
	}
	close(j.stopChan)
	<-j.done
	j.stopChan = nil
	j.logger.Info("Janitor stopped")
	return nil
}
