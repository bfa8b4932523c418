package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/db"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Ping(ctx context.Context) error
	DialCheck(ctx context.Context) error
}

// Manager creates and drops the task FT index for the current period.
type Manager struct {
	store store
	namer *Namer
	log   *zap.Logger
	now   func() time.Time
}

// NewManager creates an index manager.
func NewManager(s store, namer *Namer, log *zap.Logger) *Manager {
	return &Manager{store: s, namer: namer, log: log, now: time.Now}
}

// Namer exposes the naming scheme for callers that build document keys.
func (m *Manager) Namer() *Namer {
	return m.namer
}

// Exists reports whether the current period's index is present.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	name := m.namer.Name(m.now())
	exists, err := m.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", name, err)
	}
	return exists, nil
}

// Ensure creates the current period's index if absent. Returns true when
// the index was created by this call. Concurrent callers may race; the
// loser observes ErrIndexExists, which is not an error here.
func (m *Manager) Ensure(ctx context.Context) (bool, error) {
	now := m.now()
	name := m.namer.Name(now)

	def := Definition(name, m.namer.KeyPrefix(now))
	if err := m.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", name, err)
	}

	m.log.Info("index created",
		zap.String("index", name),
		zap.Int("fields", len(def.Fields)))
	return true, nil
}

// Drop removes the current period's index, keeping indexed documents.
// Returns true when an index was actually dropped.
func (m *Manager) Drop(ctx context.Context) (bool, error) {
	name := m.namer.Name(m.now())
	if err := m.store.DropIndex(ctx, name); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("drop index %s: %w", name, err)
	}

	m.log.Info("index dropped", zap.String("index", name))
	return true, nil
}

// TestConnection reports backend reachability without requiring any index
// to exist. Probe order: PING, then a search against a throwaway index
// name (a "no such index" reply proves the search engine answered), then
// a raw TCP dial.
func (m *Manager) TestConnection(ctx context.Context) bool {
	if err := m.store.Ping(ctx); err == nil {
		return true
	}

	_, err := m.store.Search(ctx, &db.SearchQuery{
		IndexName: "connection-probe",
		Query:     "*",
		Limit:     1,
	})
	if err == nil || errors.Is(err, db.ErrIndexNotFound) {
		return true
	}

	if err := m.store.DialCheck(ctx); err == nil {
		m.log.Warn("backend reachable over TCP but not answering commands")
		return true
	}

	return false
}

// Definition builds the task index schema bound to the given key prefix.
// Text fields carry the relevance weights used at query time: title 3,
// description 2, aggregated search content 1.
func Definition(name, keyPrefix string) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        name,
		StorageType: db.StorageJSON,
		Prefixes:    []string{keyPrefix},
		Fields: []db.IndexField{
			{Path: "$.title", Alias: "title", Type: db.IndexFieldText, TextWeight: 3, WithSuffixTrie: true},
			{Path: "$.description", Alias: "description", Type: db.IndexFieldText, TextWeight: 2},
			{Path: "$.searchContent", Alias: "search_content", Type: db.IndexFieldText, TextWeight: 1},
			{Path: "$.project.name", Alias: "project_name", Type: db.IndexFieldText},
			{Path: "$.userId", Alias: "user_id", Type: db.IndexFieldTag},
			{Path: "$.isDeleted", Alias: "is_deleted", Type: db.IndexFieldTag},
			{Path: "$.isOverdue", Alias: "is_overdue", Type: db.IndexFieldTag},
			{Path: "$.tags[*]", Alias: "tags", Type: db.IndexFieldTag},
			{Path: "$.status", Alias: "status", Type: db.IndexFieldTag},
			{Path: "$.priority", Alias: "priority", Type: db.IndexFieldTag},
			{Path: "$.project.id", Alias: "project_id", Type: db.IndexFieldNumeric},
			{Path: "$.dueDate", Alias: "due_date", Type: db.IndexFieldNumeric, Sortable: true},
			{Path: "$.createdAt", Alias: "created_at", Type: db.IndexFieldNumeric, Sortable: true},
		},
	}
}
