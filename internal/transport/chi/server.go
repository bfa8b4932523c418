package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/domain"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	domsearch "github.com/taskdeck/searchd/internal/domain/search"
	"github.com/taskdeck/searchd/internal/logger"
	"github.com/taskdeck/searchd/internal/metrics"
	"github.com/taskdeck/searchd/internal/repository/index"
	healthuc "github.com/taskdeck/searchd/internal/usecase/health"
	searchuc "github.com/taskdeck/searchd/internal/usecase/search"
	syncuc "github.com/taskdeck/searchd/internal/usecase/sync"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeUnavailable      = "unavailable"
	codeInternalError    = "internal_error"
)

// errorResponse is the JSON body of every non-2xx reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server holds the HTTP handlers for the task search API. The sync service
// may be nil when no task store is configured; sync routes then answer 503.
type Server struct {
	search *searchuc.Service
	sync   *syncuc.Service
	index  *index.Manager
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	sync *syncuc.Service,
	idx *index.Manager,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search: search,
		sync:   sync,
		index:  idx,
		health: health,
		logger: logger,
	}
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tasks/search", s.SearchTasks)
		r.Get("/tasks/suggest", s.SuggestTasks)

		r.Get("/analytics/status", s.StatusDistribution)
		r.Get("/analytics/priority", s.PriorityDistribution)
		r.Get("/analytics/overdue", s.OverdueTasks)

		r.Post("/sync/tasks/{taskID}", s.SyncTask)
		r.Post("/sync/all", s.SyncAll)

		r.Get("/admin/index", s.IndexStatus)
		r.Put("/admin/index", s.EnsureIndex)
		r.Delete("/admin/index", s.DropIndex)
	})
}

// searchResponse is one page of task search results.
type searchResponse struct {
	Items    []taskItem `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	TookMs   int64      `json:"took_ms"`
}

// taskItem is the wire shape of one indexed task.
type taskItem struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProjectID   *int       `json:"project_id,omitempty"`
	ProjectName string     `json:"project_name,omitempty"`
	Tags        []string   `json:"tags"`
	IsOverdue   bool       `json:"is_overdue"`
}

// SearchTasks handles GET /v1/tasks/search.
func (s *Server) SearchTasks(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	started := time.Now()
	page, err := s.search.Search(r.Context(), req)
	metrics.RecordQuery("search", time.Since(started))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]taskItem, len(page.Documents))
	for i := range page.Documents {
		items[i] = taskItemFromDocument(&page.Documents[i])
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		TookMs:   page.TookMs,
	})
}

// SuggestTasks handles GET /v1/tasks/suggest.
func (s *Server) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}
	fragment := r.URL.Query().Get("q")

	started := time.Now()
	suggestions := s.search.Suggestions(r.Context(), userID, fragment)
	metrics.RecordQuery("suggest", time.Since(started))

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// StatusDistribution handles GET /v1/analytics/status.
func (s *Server) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	s.distribution(w, r, "status_distribution", s.search.StatusDistribution)
}

// PriorityDistribution handles GET /v1/analytics/priority.
func (s *Server) PriorityDistribution(w http.ResponseWriter, r *http.Request) {
	s.distribution(w, r, "priority_distribution", s.search.PriorityDistribution)
}

func (s *Server) distribution(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	fn func(ctx context.Context, userID string) map[string]int64,
) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}

	started := time.Now()
	dist := fn(r.Context(), userID)
	metrics.RecordQuery(operation, time.Since(started))

	writeJSON(w, http.StatusOK, map[string]map[string]int64{"counts": dist})
}

// OverdueTasks handles GET /v1/analytics/overdue.
func (s *Server) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}

	started := time.Now()
	docs := s.search.Overdue(r.Context(), userID)
	metrics.RecordQuery("overdue", time.Since(started))

	items := make([]taskItem, len(docs))
	for i := range docs {
		items[i] = taskItemFromDocument(&docs[i])
	}

	writeJSON(w, http.StatusOK, map[string][]taskItem{"items": items})
}

// syncResponse reports the outcome of a single-task sync.
type syncResponse struct {
	TaskID int    `json:"task_id"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// SyncTask handles POST /v1/sync/tasks/{taskID}.
func (s *Server) SyncTask(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "task store is not configured")
		return
	}

	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil || taskID <= 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "task id must be a positive integer")
		return
	}

	res := s.sync.SyncTask(r.Context(), taskID)
	metrics.RecordSyncResult(string(res.Action))

	resp := syncResponse{TaskID: res.TaskID, Action: string(res.Action)}
	status := http.StatusOK
	if res.Failed() {
		status = http.StatusBadGateway
		resp.Error = res.Err.Error()
	}
	writeJSON(w, status, resp)
}

// SyncAll handles POST /v1/sync/all.
func (s *Server) SyncAll(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "task store is not configured")
		return
	}

	started := time.Now()
	clean := s.sync.SyncAll(r.Context())
	took := time.Since(started)
	metrics.RecordResync(took)
	logger.FromContext(r.Context()).Info("manual resync",
		zap.Bool("clean", clean), zap.Duration("took", took))

	writeJSON(w, http.StatusOK, map[string]any{
		"clean":   clean,
		"took_ms": took.Milliseconds(),
	})
}

// indexResponse reports the outcome of an index mutation.
type indexResponse struct {
	Index  string `json:"index"`
	Action string `json:"action"`
}

// indexStatusResponse describes the current period's index.
type indexStatusResponse struct {
	Index     string `json:"index"`
	Exists    bool   `json:"exists"`
	Reachable bool   `json:"reachable"`
}

// IndexStatus handles GET /v1/admin/index.
func (s *Server) IndexStatus(w http.ResponseWriter, r *http.Request) {
	reachable := s.index.TestConnection(r.Context())

	exists := false
	if reachable {
		var err error
		if exists, err = s.index.Exists(r.Context()); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, indexStatusResponse{
		Index:     s.index.Namer().Name(time.Now()),
		Exists:    exists,
		Reachable: reachable,
	})
}

// EnsureIndex handles PUT /v1/admin/index.
func (s *Server) EnsureIndex(w http.ResponseWriter, r *http.Request) {
	created, err := s.index.Ensure(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	action := "exists"
	status := http.StatusOK
	if created {
		action = "created"
		status = http.StatusCreated
	}
	writeJSON(w, status, indexResponse{
		Index:  s.index.Namer().Name(time.Now()),
		Action: action,
	})
}

// DropIndex handles DELETE /v1/admin/index.
func (s *Server) DropIndex(w http.ResponseWriter, r *http.Request) {
	dropped, err := s.index.Drop(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !dropped {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse{
		Index:  s.index.Namer().Name(time.Now()),
		Action: "dropped",
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		s.logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// searchRequestFromQuery parses the search query string parameters.
func searchRequestFromQuery(r *http.Request) (*domsearch.Request, error) {
	q := r.URL.Query()

	req := &domsearch.Request{
		Query:  q.Get("q"),
		UserID: q.Get("user_id"),
	}
	if req.UserID == "" {
		return nil, errors.New("user_id is required")
	}

	var err error
	if req.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return nil, err
	}
	if req.PageSize, err = intParam(q.Get("page_size"), "page_size"); err != nil {
		return nil, err
	}

	filters, err := filtersFromQuery(q)
	if err != nil {
		return nil, err
	}
	req.Filters = filters

	return req, nil
}

func filtersFromQuery(q url.Values) (*domsearch.Filters, error) {
	f := &domsearch.Filters{}

	for _, raw := range splitCSV(q.Get("status")) {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, raw := range splitCSV(q.Get("priority")) {
		p, err := domain.ParsePriority(raw)
		if err != nil {
			return nil, fmt.Errorf("priority: %w", err)
		}
		f.Priorities = append(f.Priorities, p)
	}

	if raw := q.Get("project_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("project_id must be an integer, got %q", raw)
		}
		f.ProjectID = &id
	}

	var err error
	if f.DueFrom, err = timeParam(q.Get("due_from"), "due_from"); err != nil {
		return nil, err
	}
	if f.DueTo, err = timeParam(q.Get("due_to"), "due_to"); err != nil {
		return nil, err
	}

	if raw := q.Get("overdue"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("overdue must be a boolean, got %q", raw)
		}
		f.Overdue = &b
	}

	if f.IsZero() {
		return nil, nil
	}
	return f, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// timeParam accepts RFC 3339 timestamps and plain dates (2006-01-02).
func timeParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or a date, got %q", name, raw)
	}
	return &t, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func taskItemFromDocument(doc *domdoc.TaskDocument) taskItem {
	item := taskItem{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Priority:    doc.Priority,
		Status:      doc.Status,
		CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		Tags:        doc.Tags,
		IsOverdue:   doc.IsOverdue,
	}
	if doc.DueDate > 0 {
		due := time.UnixMilli(doc.DueDate).UTC()
		item.DueDate = &due
	}
	if doc.Project.ID > 0 {
		id := doc.Project.ID
		item.ProjectID = &id
		item.ProjectName = doc.Project.Name
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
