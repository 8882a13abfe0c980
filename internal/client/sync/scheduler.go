package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/robfig/cron/v3"
)

// debounceDelay batches rapid local mutations into one sync request.
var debounceDelay = 3 * time.Second

// Scheduler drives the engine: a periodic cron job, a debounced trigger for
// local mutations, and explicit on-demand runs. Every path funnels into the
// single-flight engine, so overlapping triggers collapse to one cycle.
type Scheduler struct {
	engine *Engine
	log    logging.Logger
	cron   *cron.Cron

	mu      sync.Mutex
	pending *time.Timer
	ctx     context.Context
}

func NewScheduler(engine *Engine, log logging.Logger) *Scheduler {
	return &Scheduler{
		engine: engine,
		log:    log,
		cron:   cron.New(),
	}
}

// Start begins periodic syncing every interval seconds. ctx bounds the
// lifetime of all triggered cycles.
func (s *Scheduler) Start(ctx context.Context, intervalSecs int) error {
	if intervalSecs <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	spec := fmt.Sprintf("@every %ds", intervalSecs)
	if _, err := s.cron.AddFunc(spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the periodic trigger and cancels any pending debounced run. It
// waits for an in-flight cron invocation to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
}

// RequestSoon schedules a sync shortly after a local mutation. Repeated
// calls within the debounce window collapse into a single run.
func (s *Scheduler) RequestSoon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	if s.pending != nil {
		s.pending.Reset(debounceDelay)
		return
	}
	s.pending = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		s.run(ctx)
	})
}

// RunNow runs a cycle immediately and returns its result.
func (s *Scheduler) RunNow(ctx context.Context) (*Result, error) {
	return s.engine.Sync(ctx)
}

// run is the fire-and-forget path for timers. Busy and not-configured are
// expected no-ops, anything else is logged.
func (s *Scheduler) run(ctx context.Context) {
	_, err := s.engine.Sync(ctx)
	if err == nil ||
		errors.Is(err, common.ErrSyncInProgress) ||
		errors.Is(err, common.ErrNotConfigured) {
		return
	}
	s.log.Error(ctx, "scheduled sync failed", "error", err)
}
