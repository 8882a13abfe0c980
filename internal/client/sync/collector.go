package sync

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/client/repositories/lists"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tags"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tombstones"
	"github.com/dmitrijs2005/tickit/internal/protocol"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Collector gathers local changes for the outgoing half of a sync cycle. It
// only reads; repositories keep their own stable id ordering.
type Collector struct {
	taskRepo      tasks.Repository
	listRepo      lists.Repository
	tagRepo       tags.Repository
	tombstoneRepo tombstones.Repository
}

func NewCollector(taskRepo tasks.Repository, listRepo lists.Repository, tagRepo tags.Repository, tombstoneRepo tombstones.Repository) *Collector {
	return &Collector{
		taskRepo:      taskRepo,
		listRepo:      listRepo,
		tagRepo:       tagRepo,
		tombstoneRepo: tombstoneRepo,
	}
}

// Collect returns the records changed since checkpoint. A nil checkpoint
// means first sync: a full snapshot of every entity, with no tombstones.
// Lists come first so receivers apply them before the tasks that refer to
// them.
func (c *Collector) Collect(ctx context.Context, checkpoint *timex.Time) ([]protocol.Record, error) {
	if checkpoint == nil {
		return c.collectAll(ctx)
	}
	return c.collectSince(ctx, *checkpoint)
}

func (c *Collector) collectAll(ctx context.Context) ([]protocol.Record, error) {
	var records []protocol.Record

	allLists, err := c.listRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect lists: %w", err)
	}
	for _, l := range allLists {
		records = append(records, protocol.ListRecord(l))
	}

	allTags, err := c.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tags: %w", err)
	}
	for _, t := range allTags {
		records = append(records, protocol.TagRecord(t))
	}

	allTasks, err := c.taskRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tasks: %w", err)
	}
	for _, t := range allTasks {
		records = append(records, protocol.TaskRecord(t))
	}

	return records, nil
}

func (c *Collector) collectSince(ctx context.Context, since timex.Time) ([]protocol.Record, error) {
	var records []protocol.Record

	changedLists, err := c.listRepo.UpdatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to collect lists: %w", err)
	}
	for _, l := range changedLists {
		records = append(records, protocol.ListRecord(l))
	}

	changedTags, err := c.tagRepo.UpdatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tags: %w", err)
	}
	for _, t := range changedTags {
		records = append(records, protocol.TagRecord(t))
	}

	changedTasks, err := c.taskRepo.UpdatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tasks: %w", err)
	}
	for _, t := range changedTasks {
		records = append(records, protocol.TaskRecord(t))
	}

	deleted, err := c.tombstoneRepo.Since(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tombstones: %w", err)
	}
	for _, t := range deleted {
		records = append(records, protocol.DeletedRecord(t))
	}

	return records, nil
}
