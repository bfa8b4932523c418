package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	domsearch "github.com/taskdeck/searchd/internal/domain/search"
)

// Limits bound page sizes and suggestion counts.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
	SuggestLimit    int
}

// DefaultLimits mirror the config defaults.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: 20, MaxPageSize: 100, SuggestLimit: 10}
}

// minSuggestFragment is the shortest fragment worth a backend round trip.
const minSuggestFragment = 2

// Service is the read-side facade over the task index. Query failures
// degrade to empty results so a search box outage never breaks the page
// rendering around it; invalid requests are still rejected loudly.
type Service struct {
	repo   Repository
	limits Limits
	log    *zap.Logger
}

// New creates a search service.
func New(repo Repository, limits Limits, log *zap.Logger) *Service {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = DefaultLimits().DefaultPageSize
	}
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = DefaultLimits().MaxPageSize
	}
	if limits.SuggestLimit <= 0 {
		limits.SuggestLimit = DefaultLimits().SuggestLimit
	}
	return &Service{repo: repo, limits: limits, log: log}
}

// Search validates and runs a task search. Backend failures return an
// empty page, not an error.
func (s *Service) Search(ctx context.Context, req *domsearch.Request) (domsearch.Page, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = s.limits.DefaultPageSize
	}
	if req.PageSize > s.limits.MaxPageSize {
		req.PageSize = s.limits.MaxPageSize
	}

	if err := req.Validate(); err != nil {
		return domsearch.EmptyPage(req.Page, req.PageSize), fmt.Errorf("validate search request: %w", err)
	}

	page, err := s.repo.SearchTasks(ctx, req)
	if err != nil {
		s.log.Error("search degraded to empty page",
			zap.String("user_id", req.UserID), zap.Error(err))
		return domsearch.EmptyPage(req.Page, req.PageSize), nil
	}
	return *page, nil
}

// Suggestions returns autocomplete candidates for a typed fragment.
// Fragments shorter than two characters short-circuit to an empty list
// without touching the backend.
func (s *Service) Suggestions(ctx context.Context, userID, fragment string) []string {
	fragment = strings.TrimSpace(fragment)
	if userID == "" || len([]rune(fragment)) < minSuggestFragment {
		return []string{}
	}

	suggestions, err := s.repo.Suggest(ctx, userID, fragment, s.limits.SuggestLimit)
	if err != nil {
		s.log.Error("suggest failed", zap.String("user_id", userID), zap.Error(err))
		return []string{}
	}
	if suggestions == nil {
		return []string{}
	}
	return suggestions
}

// StatusDistribution counts the user's live tasks per status. Backend
// failures degrade to an empty distribution.
func (s *Service) StatusDistribution(ctx context.Context, userID string) map[string]int64 {
	dist, err := s.repo.StatusDistribution(ctx, userID)
	if err != nil {
		s.log.Error("status distribution failed",
			zap.String("user_id", userID), zap.Error(err))
		return map[string]int64{}
	}
	return dist
}

// PriorityDistribution counts the user's live tasks per priority.
func (s *Service) PriorityDistribution(ctx context.Context, userID string) map[string]int64 {
	dist, err := s.repo.PriorityDistribution(ctx, userID)
	if err != nil {
		s.log.Error("priority distribution failed",
			zap.String("user_id", userID), zap.Error(err))
		return map[string]int64{}
	}
	return dist
}

// Overdue lists the user's overdue tasks, earliest due date first.
func (s *Service) Overdue(ctx context.Context, userID string) []domdoc.TaskDocument {
	docs, err := s.repo.Overdue(ctx, userID)
	if err != nil {
		s.log.Error("overdue listing failed",
			zap.String("user_id", userID), zap.Error(err))
		return []domdoc.TaskDocument{}
	}
	if docs == nil {
		return []domdoc.TaskDocument{}
	}
	return docs
}
