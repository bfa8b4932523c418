package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/domain"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
)

// Action is the outcome class of a single-task sync.
type Action string

const (
	// ActionIndexed means the task document was written to the index.
	ActionIndexed Action = "indexed"
	// ActionRemoved means the document was removed (or confirmed absent).
	ActionRemoved Action = "removed"
	// ActionFailed means the sync attempt failed; Err carries the cause.
	ActionFailed Action = "failed"
)

// Result is the outcome of syncing one task. Sync absorbs errors instead
// of propagating them, so a task change can never take down its caller.
type Result struct {
	TaskID int
	Action Action
	Err    error
}

// Failed reports whether the sync attempt failed.
func (r Result) Failed() bool {
	return r.Action == ActionFailed
}

// Service mirrors task state from the primary store into the search index.
type Service struct {
	source TaskSource
	docs   DocumentWriter
	idx    IndexEnsurer
	log    *zap.Logger
	now    func() time.Time
}

// New creates a sync service.
func New(source TaskSource, docs DocumentWriter, idx IndexEnsurer, log *zap.Logger) *Service {
	return &Service{source: source, docs: docs, idx: idx, log: log, now: time.Now}
}

// SyncTask converges the index entry for one task: deleted or missing
// tasks are removed, everything else is reindexed in full. The returned
// Result always describes the outcome; it never panics or propagates an
// error to the caller.
func (s *Service) SyncTask(ctx context.Context, taskID int) Result {
	agg, err := s.source.LoadAggregate(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return s.remove(ctx, taskID)
		}
		s.log.Error("load task for sync failed",
			zap.Int("task_id", taskID), zap.Error(err))
		return Result{TaskID: taskID, Action: ActionFailed, Err: err}
	}

	if agg.Task.IsDeleted {
		return s.remove(ctx, taskID)
	}

	doc := domdoc.FromAggregate(agg, s.now())
	if err := s.docs.Upsert(ctx, &doc); err != nil {
		s.log.Error("index task failed",
			zap.Int("task_id", taskID), zap.Error(err))
		return Result{TaskID: taskID, Action: ActionFailed, Err: err}
	}

	s.log.Debug("task indexed", zap.Int("task_id", taskID))
	return Result{TaskID: taskID, Action: ActionIndexed}
}

func (s *Service) remove(ctx context.Context, taskID int) Result {
	existed, err := s.docs.Delete(ctx, taskID)
	if err != nil {
		s.log.Error("remove task from index failed",
			zap.Int("task_id", taskID), zap.Error(err))
		return Result{TaskID: taskID, Action: ActionFailed, Err: err}
	}

	s.log.Debug("task removed from index",
		zap.Int("task_id", taskID), zap.Bool("existed", existed))
	return Result{TaskID: taskID, Action: ActionRemoved}
}

// SyncAll reindexes every active task in one bulk write. It ensures the
// index exists first and reports per-task failures in the log; the return
// value is false only when the resync could not run at all or no item of
// the batch made it into the index.
func (s *Service) SyncAll(ctx context.Context) bool {
	if _, err := s.idx.Ensure(ctx); err != nil {
		s.log.Error("ensure index for resync failed", zap.Error(err))
		return false
	}

	aggs, err := s.source.LoadAllActive(ctx)
	if err != nil {
		s.log.Error("load active tasks for resync failed", zap.Error(err))
		return false
	}
	if len(aggs) == 0 {
		s.log.Info("resync found no active tasks")
		return true
	}

	now := s.now()
	docs := make([]domdoc.TaskDocument, len(aggs))
	for i := range aggs {
		docs[i] = domdoc.FromAggregate(&aggs[i], now)
	}

	failed := 0
	for i, err := range s.docs.BulkUpsert(ctx, docs) {
		if err != nil {
			failed++
			s.log.Error("bulk index item failed",
				zap.Int("task_id", docs[i].ID), zap.Error(err))
		}
	}

	s.log.Info("resync finished",
		zap.Int("total", len(docs)), zap.Int("failed", failed))

	// Individual item failures are corrected by the next resync; only a
	// wholly rejected batch counts as a failed run.
	return failed < len(docs)
}
