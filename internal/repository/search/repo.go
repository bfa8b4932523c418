package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/taskdeck/searchd/internal/db"
	"github.com/taskdeck/searchd/internal/db/redis"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	domsearch "github.com/taskdeck/searchd/internal/domain/search"
	"github.com/taskdeck/searchd/internal/repository/index"
)

// overdueLimit caps the overdue listing; it is an operational report, not
// a paginated surface.
const overdueLimit = 100

// store is the consumer interface for search reads (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.AggregateRow, error)
}

// Repo runs task queries against the current period's FT index.
type Repo struct {
	store store
	namer *index.Namer
	now   func() time.Time
}

// New creates a search repository.
func New(s store, namer *index.Namer) *Repo {
	return &Repo{store: s, namer: namer, now: time.Now}
}

// SearchTasks runs a paginated task search. Text queries rank by relevance
// (schema weights: title over description over aggregated content) with
// creation time breaking ties; browse queries without text order by
// creation time descending.
func (r *Repo) SearchTasks(ctx context.Context, req *domsearch.Request) (*domsearch.Page, error) {
	hasText := strings.TrimSpace(req.Query) != ""

	q := &db.SearchQuery{
		IndexName: r.namer.Name(r.now()),
		Query:     buildQuery(req),
		Offset:    req.Offset(),
		Limit:     req.PageSize,
	}
	if hasText {
		q.WithScores = true
	} else {
		q.SortBy = "created_at"
		q.SortAsc = false
	}

	started := time.Now()
	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	took := time.Since(started)

	page := &domsearch.Page{
		Documents: parseDocuments(sr),
		Total:     sr.Total,
		TookMs:    took.Milliseconds(),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if hasText {
		sortByScoreThenRecency(page.Documents, sr)
	}
	return page, nil
}

// Suggest returns up to limit distinct task titles whose title contains
// the typed fragment, scoped to the user's live tasks.
func (r *Repo) Suggest(ctx context.Context, userID, fragment string, limit int) ([]string, error) {
	q := &db.SearchQuery{
		IndexName:    r.namer.Name(r.now()),
		Query:        buildSuggestQuery(userID, fragment),
		Limit:        limit * 2, // headroom for duplicate titles
		ReturnFields: []string{"$.title", "AS", "title"},
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	suggestions := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, entry := range sr.Entries {
		title := entry.Fields["title"]
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		suggestions = append(suggestions, title)
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions, nil
}

// StatusDistribution counts the user's live tasks per status name.
func (r *Repo) StatusDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	return r.distribution(ctx, userID, "status")
}

// PriorityDistribution counts the user's live tasks per priority name.
func (r *Repo) PriorityDistribution(ctx context.Context, userID string) (map[string]int64, error) {
	return r.distribution(ctx, userID, "priority")
}

func (r *Repo) distribution(ctx context.Context, userID, field string) (map[string]int64, error) {
	rows, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: r.namer.Name(r.now()),
		Query:     baseQuery(userID),
		GroupBy:   field,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", field, err)
	}

	dist := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		dist[row.Key] += row.Count
	}
	return dist, nil
}

// Overdue lists the user's overdue tasks, most urgent (earliest due date)
// first.
func (r *Repo) Overdue(ctx context.Context, userID string) ([]domdoc.TaskDocument, error) {
	q := &db.SearchQuery{
		IndexName: r.namer.Name(r.now()),
		Query:     baseQuery(userID) + " @is_overdue:{true}",
		Limit:     overdueLimit,
		SortBy:    "due_date",
		SortAsc:   true,
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("overdue: %w", err)
	}
	return parseDocuments(sr), nil
}

// --- Query building ---

// baseQuery scopes every query to one user's live documents. The two
// clauses are not optional; every public query path goes through here.
func baseQuery(userID string) string {
	return fmt.Sprintf("@user_id:{%s} @is_deleted:{false}", redis.EscapeTag(userID))
}

func buildQuery(req *domsearch.Request) string {
	parts := []string{baseQuery(req.UserID)}

	if text := strings.TrimSpace(req.Query); text != "" {
		parts = append(parts, fmt.Sprintf("@title|description|search_content:(%s)", redis.EscapeQuery(text)))
	}

	f := req.Filters
	if f == nil {
		return strings.Join(parts, " ")
	}

	if len(f.Statuses) > 0 {
		names := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			names[i] = s.String()
		}
		parts = append(parts, tagAnyOf("status", names))
	}
	if len(f.Priorities) > 0 {
		names := make([]string, len(f.Priorities))
		for i, p := range f.Priorities {
			names[i] = p.String()
		}
		parts = append(parts, tagAnyOf("priority", names))
	}
	if f.ProjectID != nil {
		parts = append(parts, fmt.Sprintf("@project_id:[%d %d]", *f.ProjectID, *f.ProjectID))
	}
	if f.DueFrom != nil || f.DueTo != nil {
		minBound := "-inf"
		maxBound := "+inf"
		if f.DueFrom != nil {
			minBound = strconv.FormatInt(f.DueFrom.UnixMilli(), 10)
		}
		if f.DueTo != nil {
			maxBound = strconv.FormatInt(f.DueTo.UnixMilli(), 10)
		}
		parts = append(parts, fmt.Sprintf("@due_date:[%s %s]", minBound, maxBound))
	}
	if f.Overdue != nil {
		parts = append(parts, fmt.Sprintf("@is_overdue:{%t}", *f.Overdue))
	}

	return strings.Join(parts, " ")
}

// buildSuggestQuery matches titles containing the fragment, using dialect-2
// wildcard matching against the title suffix trie. Only the last word is
// still being typed, so only it gets the wildcard; earlier words must match
// as whole terms (a wildcard spanning a space can never match a single
// indexed term).
func buildSuggestQuery(userID, fragment string) string {
	words := strings.Fields(strings.ToLower(fragment))
	if len(words) == 0 {
		return baseQuery(userID)
	}

	terms := make([]string, len(words))
	for i, word := range words {
		if i < len(words)-1 {
			terms[i] = redis.EscapeQuery(word)
			continue
		}
		escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `*`, ``, `?`, ``).Replace(word)
		terms[i] = fmt.Sprintf("w'*%s*'", escaped)
	}

	return fmt.Sprintf("%s @title:(%s)", baseQuery(userID), strings.Join(terms, " "))
}

// tagAnyOf builds a TAG filter matching any of the given values.
func tagAnyOf(field string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = redis.EscapeTag(v)
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, " | "))
}

// --- Result parsing ---

func parseDocuments(sr *db.SearchResult) []domdoc.TaskDocument {
	docs := make([]domdoc.TaskDocument, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		raw := entry.Fields["$"]
		if raw == "" {
			continue
		}
		var doc domdoc.TaskDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// sortByScoreThenRecency re-sorts a relevance-ordered page so that
// equal-score hits come newest first.
func sortByScoreThenRecency(docs []domdoc.TaskDocument, sr *db.SearchResult) {
	scores := make(map[int]float64, len(sr.Entries))
	for _, entry := range sr.Entries {
		raw := entry.Fields["$"]
		if raw == "" {
			continue
		}
		var probe struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal([]byte(raw), &probe); err != nil {
			continue
		}
		scores[probe.ID] = entry.Score
	}

	sort.SliceStable(docs, func(i, j int) bool {
		si, sj := scores[docs[i].ID], scores[docs[j].ID]
		if si != sj {
			return si > sj
		}
		return docs[i].CreatedAt > docs[j].CreatedAt
	})
}
