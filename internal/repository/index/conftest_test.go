package index

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchFn      func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	pingFn        func(ctx context.Context) error
	dialCheckFn   func(ctx context.Context) error
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockStore) DialCheck(ctx context.Context) error {
	if m.dialCheckFn != nil {
		return m.dialCheckFn(ctx)
	}
	return nil
}

func newTestManager(t *testing.T) (*Manager, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	m := NewManager(ms, NewNamer("tasks", "2006-01"), zap.NewNop())
	m.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	return m, ms
}
