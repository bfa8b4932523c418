package search

import (
	"context"
	"testing"

	"go.uber.org/zap"

	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	domsearch "github.com/taskdeck/searchd/internal/domain/search"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	searchTasksFn          func(ctx context.Context, req *domsearch.Request) (*domsearch.Page, error)
	suggestFn              func(ctx context.Context, userID, fragment string, limit int) ([]string, error)
	statusDistributionFn   func(ctx context.Context, userID string) (map[string]int64, error)
	priorityDistributionFn func(ctx context.Context, userID string) (map[string]int64, error)
	overdueFn              func(ctx context.Context, userID string) ([]domdoc.TaskDocument, error)
}

func (m *mockRepo) SearchTasks(ctx context.Context, req *domsearch.Request) (*domsearch.Page, error) {
	if m.searchTasksFn != nil {
		return m.searchTasksFn(ctx, req)
	}
	page := domsearch.EmptyPage(req.Page, req.PageSize)
	return &page, nil
}

func (m *mockRepo) Suggest(ctx context.Context, userID, fragment string, limit int) ([]string, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, userID, fragment, limit)
	}
	return nil, nil
}

func (m *mockRepo) StatusDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	if m.statusDistributionFn != nil {
		return m.statusDistributionFn(ctx, userID)
	}
	return map[string]int64{}, nil
}

func (m *mockRepo) PriorityDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	if m.priorityDistributionFn != nil {
		return m.priorityDistributionFn(ctx, userID)
	}
	return map[string]int64{}, nil
}

func (m *mockRepo) Overdue(ctx context.Context, userID string) ([]domdoc.TaskDocument, error) {
	if m.overdueFn != nil {
		return m.overdueFn(ctx, userID)
	}
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	mr := &mockRepo{}
	return New(mr, DefaultLimits(), zap.NewNop()), mr
}
