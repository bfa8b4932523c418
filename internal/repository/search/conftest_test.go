package search

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/taskdeck/searchd/internal/db"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	"github.com/taskdeck/searchd/internal/repository/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn    func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	aggregateFn func(ctx context.Context, q *db.AggregateQuery) ([]db.AggregateRow, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.AggregateRow, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, index.NewNamer("tasks", "2006-01"))
	repo.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	return repo, ms
}

// docEntry builds a search entry carrying the document as the "$" field.
func docEntry(t *testing.T, doc domdoc.TaskDocument, score float64) db.SearchEntry {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return db.SearchEntry{
		Key:    "tasks-2026-08:" + strconv.Itoa(doc.ID),
		Score:  score,
		Fields: map[string]string{"$": string(data)},
	}
}
