package sync

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/domain"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
)

// mockSource implements TaskSource for tests.
type mockSource struct {
	loadAggregateFn func(ctx context.Context, taskID int) (*domain.TaskAggregate, error)
	loadAllActiveFn func(ctx context.Context) ([]domain.TaskAggregate, error)
}

func (m *mockSource) LoadAggregate(ctx context.Context, taskID int) (*domain.TaskAggregate, error) {
	if m.loadAggregateFn != nil {
		return m.loadAggregateFn(ctx, taskID)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockSource) LoadAllActive(ctx context.Context) ([]domain.TaskAggregate, error) {
	if m.loadAllActiveFn != nil {
		return m.loadAllActiveFn(ctx)
	}
	return nil, nil
}

// mockWriter implements DocumentWriter for tests.
type mockWriter struct {
	upsertFn     func(ctx context.Context, doc *domdoc.TaskDocument) error
	bulkUpsertFn func(ctx context.Context, docs []domdoc.TaskDocument) []error
	deleteFn     func(ctx context.Context, taskID int) (bool, error)
}

func (m *mockWriter) Upsert(ctx context.Context, doc *domdoc.TaskDocument) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockWriter) BulkUpsert(ctx context.Context, docs []domdoc.TaskDocument) []error {
	if m.bulkUpsertFn != nil {
		return m.bulkUpsertFn(ctx, docs)
	}
	return make([]error, len(docs))
}

func (m *mockWriter) Delete(ctx context.Context, taskID int) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, taskID)
	}
	return false, nil
}

// mockEnsurer implements IndexEnsurer for tests.
type mockEnsurer struct {
	ensureFn func(ctx context.Context) (bool, error)
}

func (m *mockEnsurer) Ensure(ctx context.Context) (bool, error) {
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}
	return false, nil
}

func newTestService(t *testing.T) (*Service, *mockSource, *mockWriter, *mockEnsurer) {
	t.Helper()
	src := &mockSource{}
	w := &mockWriter{}
	idx := &mockEnsurer{}
	svc := New(src, w, idx, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	return svc, src, w, idx
}

func activeTask(id int) *domain.TaskAggregate {
	return &domain.TaskAggregate{
		Task: domain.TaskItem{
			ID:        id,
			Title:     "Fix parser",
			Priority:  domain.PriorityHigh,
			Status:    domain.StatusInProgress,
			CreatedAt: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			UserID:    "u1",
		},
	}
}
