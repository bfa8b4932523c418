package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/db"
	"github.com/taskdeck/searchd/internal/domain"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	domsearch "github.com/taskdeck/searchd/internal/domain/search"
	"github.com/taskdeck/searchd/internal/repository/index"
	healthuc "github.com/taskdeck/searchd/internal/usecase/health"
	searchuc "github.com/taskdeck/searchd/internal/usecase/search"
	syncuc "github.com/taskdeck/searchd/internal/usecase/sync"
)

type mockSearchRepo struct {
	searchTasksFn          func(ctx context.Context, req *domsearch.Request) (*domsearch.Page, error)
	suggestFn              func(ctx context.Context, userID, fragment string, limit int) ([]string, error)
	statusDistributionFn   func(ctx context.Context, userID string) (map[string]int64, error)
	priorityDistributionFn func(ctx context.Context, userID string) (map[string]int64, error)
	overdueFn              func(ctx context.Context, userID string) ([]domdoc.TaskDocument, error)
}

func (m *mockSearchRepo) SearchTasks(ctx context.Context, req *domsearch.Request) (*domsearch.Page, error) {
	if m.searchTasksFn == nil {
		return &domsearch.Page{Documents: []domdoc.TaskDocument{}, Page: req.Page, PageSize: req.PageSize}, nil
	}
	return m.searchTasksFn(ctx, req)
}

func (m *mockSearchRepo) Suggest(ctx context.Context, userID, fragment string, limit int) ([]string, error) {
	if m.suggestFn == nil {
		return []string{}, nil
	}
	return m.suggestFn(ctx, userID, fragment, limit)
}

func (m *mockSearchRepo) StatusDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	if m.statusDistributionFn == nil {
		return map[string]int64{}, nil
	}
	return m.statusDistributionFn(ctx, userID)
}

func (m *mockSearchRepo) PriorityDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	if m.priorityDistributionFn == nil {
		return map[string]int64{}, nil
	}
	return m.priorityDistributionFn(ctx, userID)
}

func (m *mockSearchRepo) Overdue(ctx context.Context, userID string) ([]domdoc.TaskDocument, error) {
	if m.overdueFn == nil {
		return []domdoc.TaskDocument{}, nil
	}
	return m.overdueFn(ctx, userID)
}

type mockTaskSource struct {
	loadAggregateFn func(ctx context.Context, taskID int) (*domain.TaskAggregate, error)
	loadAllActiveFn func(ctx context.Context) ([]domain.TaskAggregate, error)
}

func (m *mockTaskSource) LoadAggregate(ctx context.Context, taskID int) (*domain.TaskAggregate, error) {
	if m.loadAggregateFn == nil {
		return nil, domain.ErrTaskNotFound
	}
	return m.loadAggregateFn(ctx, taskID)
}

func (m *mockTaskSource) LoadAllActive(ctx context.Context) ([]domain.TaskAggregate, error) {
	if m.loadAllActiveFn == nil {
		return nil, nil
	}
	return m.loadAllActiveFn(ctx)
}

type mockDocWriter struct {
	upsertFn     func(ctx context.Context, doc *domdoc.TaskDocument) error
	bulkUpsertFn func(ctx context.Context, docs []domdoc.TaskDocument) []error
	deleteFn     func(ctx context.Context, taskID int) (bool, error)
}

func (m *mockDocWriter) Upsert(ctx context.Context, doc *domdoc.TaskDocument) error {
	if m.upsertFn == nil {
		return nil
	}
	return m.upsertFn(ctx, doc)
}

func (m *mockDocWriter) BulkUpsert(ctx context.Context, docs []domdoc.TaskDocument) []error {
	if m.bulkUpsertFn == nil {
		return make([]error, len(docs))
	}
	return m.bulkUpsertFn(ctx, docs)
}

func (m *mockDocWriter) Delete(ctx context.Context, taskID int) (bool, error) {
	if m.deleteFn == nil {
		return false, nil
	}
	return m.deleteFn(ctx, taskID)
}

type mockEnsurer struct {
	ensureFn func(ctx context.Context) (bool, error)
}

func (m *mockEnsurer) Ensure(ctx context.Context) (bool, error) {
	if m.ensureFn == nil {
		return false, nil
	}
	return m.ensureFn(ctx)
}

// mockIndexStore backs the index.Manager used by the admin routes.
type mockIndexStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchFn      func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	pingFn        func(ctx context.Context) error
	dialCheckFn   func(ctx context.Context) error
}

func (m *mockIndexStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn == nil {
		return nil
	}
	return m.createIndexFn(ctx, def)
}

func (m *mockIndexStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn == nil {
		return nil
	}
	return m.dropIndexFn(ctx, name)
}

func (m *mockIndexStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn == nil {
		return true, nil
	}
	return m.indexExistsFn(ctx, name)
}

func (m *mockIndexStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn == nil {
		return &db.SearchResult{}, nil
	}
	return m.searchFn(ctx, q)
}

func (m *mockIndexStore) Ping(ctx context.Context) error {
	if m.pingFn == nil {
		return nil
	}
	return m.pingFn(ctx)
}

func (m *mockIndexStore) DialCheck(ctx context.Context) error {
	if m.dialCheckFn == nil {
		return nil
	}
	return m.dialCheckFn(ctx)
}

type mockHealthIndex struct {
	reachable bool
	exists    bool
	existsErr error
}

func (m *mockHealthIndex) TestConnection(ctx context.Context) bool { return m.reachable }

func (m *mockHealthIndex) Exists(ctx context.Context) (bool, error) { return m.exists, m.existsErr }

// testServer bundles the mocks wired behind a routed HTTP handler.
type testServer struct {
	searchRepo  *mockSearchRepo
	taskSource  *mockTaskSource
	docWriter   *mockDocWriter
	ensurer     *mockEnsurer
	indexStore  *mockIndexStore
	healthIndex *mockHealthIndex
	handler     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		searchRepo:  &mockSearchRepo{},
		taskSource:  &mockTaskSource{},
		docWriter:   &mockDocWriter{},
		ensurer:     &mockEnsurer{},
		indexStore:  &mockIndexStore{},
		healthIndex: &mockHealthIndex{reachable: true, exists: true},
	}

	log := zap.NewNop()
	searchSvc := searchuc.New(ts.searchRepo, searchuc.DefaultLimits(), log)
	syncSvc := syncuc.New(ts.taskSource, ts.docWriter, ts.ensurer, log)
	idxMgr := index.NewManager(ts.indexStore, index.NewNamer("tasks", "2006-01"), log)
	healthSvc := healthuc.New(ts.healthIndex, nil)

	r := chi.NewRouter()
	NewServer(searchSvc, syncSvc, idxMgr, healthSvc, log).Register(r)
	ts.handler = r
	return ts
}

// newTestServerWithoutSync builds a server with no task store configured.
func newTestServerWithoutSync(t *testing.T) *testServer {
	t.Helper()

	ts := newTestServer(t)
	log := zap.NewNop()
	searchSvc := searchuc.New(ts.searchRepo, searchuc.DefaultLimits(), log)
	idxMgr := index.NewManager(ts.indexStore, index.NewNamer("tasks", "2006-01"), log)
	healthSvc := healthuc.New(ts.healthIndex, nil)

	r := chi.NewRouter()
	NewServer(searchSvc, nil, idxMgr, healthSvc, log).Register(r)
	ts.handler = r
	return ts
}

func (ts *testServer) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func sampleDoc(id int) domdoc.TaskDocument {
	return domdoc.TaskDocument{
		ID:        id,
		Title:     "Fix login flow",
		Priority:  domain.PriorityHigh.String(),
		Status:    domain.StatusInProgress.String(),
		DueDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC).UnixMilli(),
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		UserID:    "u1",
		Project:   domdoc.ProjectDocument{ID: 7, Name: "Auth"},
		Tags:      []string{"priority:high", "status:inprogress"},
	}
}
