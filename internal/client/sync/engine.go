package sync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/tickit/internal/client/repositories/lists"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tags"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/protocol"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Result summarizes one completed sync cycle.
type Result struct {
	Pushed     int
	Pulled     int
	Applied    int
	Skipped    int
	Conflicts  []string
	Checkpoint timex.Time
}

// Status is a snapshot of the engine for display.
type Status struct {
	Syncing     bool
	LastSuccess *timex.Time
	LastError   string
	LastResult  *Result
}

// Engine runs sync cycles against the configured server. It is safe for
// concurrent use; at most one cycle runs at a time.
type Engine struct {
	stateRepo syncstate.Repository
	taskRepo  tasks.Repository
	listRepo  lists.Repository
	tagRepo   tags.Repository
	collector *Collector
	transport Transport
	log       logging.Logger

	busy atomic.Bool

	mu     sync.Mutex
	status Status
}

func NewEngine(
	stateRepo syncstate.Repository,
	taskRepo tasks.Repository,
	listRepo lists.Repository,
	tagRepo tags.Repository,
	collector *Collector,
	transport Transport,
	log logging.Logger,
) *Engine {
	return &Engine{
		stateRepo: stateRepo,
		taskRepo:  taskRepo,
		listRepo:  listRepo,
		tagRepo:   tagRepo,
		collector: collector,
		transport: transport,
		log:       log,
	}
}

// Sync runs one full cycle: collect, exchange, apply, advance checkpoint.
// A second caller while a cycle is running gets ErrSyncInProgress. On any
// failure the checkpoint is left untouched, so the next cycle re-sends the
// same changes.
func (e *Engine) Sync(ctx context.Context) (*Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, common.ErrSyncInProgress
	}
	defer e.busy.Store(false)

	e.setSyncing(true)
	defer e.setSyncing(false)

	res, err := e.cycle(ctx)
	if err != nil {
		e.recordError(err)
		return nil, err
	}
	e.recordSuccess(res)
	return res, nil
}

// ForceFullSync discards the checkpoint and runs a cycle that exchanges full
// snapshots with the server.
func (e *Engine) ForceFullSync(ctx context.Context) (*Result, error) {
	if e.busy.Load() {
		return nil, common.ErrSyncInProgress
	}
	if err := e.stateRepo.ClearLastSync(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return e.Sync(ctx)
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Engine) cycle(ctx context.Context) (*Result, error) {
	cfg, err := e.stateRepo.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync config: %w", err)
	}
	if !cfg.Ready() {
		return nil, common.ErrNotConfigured
	}

	deviceID, err := e.stateRepo.GetOrCreateDeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read device id: %w", err)
	}

	checkpoint, err := e.stateRepo.GetLastSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	// Captured before collecting: anything written after this instant may be
	// missed by the collector, and the new checkpoint must not move past it.
	localSyncTime := timex.Now()

	changes, err := e.collector.Collect(ctx, checkpoint)
	if err != nil {
		return nil, err
	}

	e.log.Info(ctx, "starting sync",
		"device_id", deviceID, "full", checkpoint == nil, "pushing", len(changes))

	resp, err := e.transport.Exchange(ctx, cfg.Server, cfg.Token, &protocol.Request{
		DeviceID: deviceID,
		LastSync: checkpoint,
		Changes:  changes,
	})
	if err != nil {
		return nil, err
	}

	applied, skipped := e.apply(ctx, resp.Changes)

	newCheckpoint := timex.Min(localSyncTime, resp.ServerTime)
	if err := e.stateRepo.SetLastSync(ctx, newCheckpoint); err != nil {
		return nil, fmt.Errorf("failed to persist checkpoint: %w", err)
	}

	res := &Result{
		Pushed:     len(changes),
		Pulled:     len(resp.Changes),
		Applied:    applied,
		Skipped:    skipped,
		Conflicts:  resp.Conflicts,
		Checkpoint: newCheckpoint,
	}

	e.log.Info(ctx, "sync finished",
		"pushed", res.Pushed, "pulled", res.Pulled, "applied", res.Applied,
		"skipped", res.Skipped, "conflicts", len(res.Conflicts),
		"checkpoint", newCheckpoint)

	return res, nil
}

// apply merges the server's records into the local store in received order.
// A failed record is logged and skipped; it does not abort the cycle.
func (e *Engine) apply(ctx context.Context, records []protocol.Record) (applied, skipped int) {
	for _, rec := range records {
		changed, err := e.applyRecord(ctx, rec)
		if err != nil {
			e.log.Warn(ctx, "skipping record",
				"type", rec.Type, "id", rec.ID(), "error", err)
			skipped++
			continue
		}
		if changed {
			applied++
		}
	}
	return applied, skipped
}

// applyRecord merges one record, reporting whether the store changed.
// Entities go through the repositories' last-write-wins upsert; deletions
// remove by id unconditionally and never create local tombstones. A deletion
// aimed at the inbox list is refused by the store and counts as unchanged.
func (e *Engine) applyRecord(ctx context.Context, rec protocol.Record) (bool, error) {
	switch rec.Type {
	case protocol.TypeTask:
		return e.taskRepo.Upsert(ctx, rec.Task)
	case protocol.TypeList:
		return e.listRepo.Upsert(ctx, rec.List)
	case protocol.TypeTag:
		return e.tagRepo.Upsert(ctx, rec.Tag)
	case protocol.TypeDeleted:
		switch rec.Deleted.RecordType {
		case models.RecordTask:
			return e.taskRepo.DeleteByID(ctx, rec.Deleted.ID)
		case models.RecordList:
			return e.listRepo.DeleteByID(ctx, rec.Deleted.ID)
		case models.RecordTag:
			return e.tagRepo.DeleteByID(ctx, rec.Deleted.ID)
		}
		return false, fmt.Errorf("unknown record_type %q", rec.Deleted.RecordType)
	}
	return false, fmt.Errorf("unknown record type %q", rec.Type)
}

func (e *Engine) setSyncing(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.Syncing = v
}

func (e *Engine) recordSuccess(res *Result) {
	now := timex.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.LastSuccess = &now
	e.status.LastError = ""
	e.status.LastResult = res
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.LastError = err.Error()
}
