package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/lingnexus/platform-sdk/pkg/logger"
)

// Refresher periodically refetches trials for the active projects so an
// open monitoring view stays current without manual reloads.
type Refresher struct {
	store    *Store
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewRefresher creates a lifecycle-managed trial refresher. A zero interval
// defaults to one minute.
func NewRefresher(store *Store, interval time.Duration, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.NewDefault("monitoring-refresher")
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Refresher{
		store:    store,
		log:      log,
		interval: interval,
	}
}

// Start launches the background loop. Idempotent while running.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				r.tick(runCtx)
			}
		}
	}()

	r.log.Info("trial refresher started")
	return nil
}

// Stop cancels the loop and waits for it to drain, bounded by ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	r.log.Info("trial refresher stopped")
	return nil
}

func (r *Refresher) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, project := range r.store.Items() {
		if !project.IsActive {
			continue
		}
		if _, err := r.store.FetchTrials(ctx, TrialListParams{ProjectID: project.ID}); err != nil {
			r.log.WithError(err).
				WithField("project_id", project.ID).
				Warn("trial refresh failed")
		}
	}
}
