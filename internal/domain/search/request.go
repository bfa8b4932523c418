package search

import (
	"fmt"
	"time"

	"github.com/taskdeck/searchd/internal/domain"
)

// Filters are the optional structured clauses of a search request. Each
// field is independently optional; set fields are AND-ed together.
type Filters struct {
	Statuses   []domain.Status
	Priorities []domain.Priority
	ProjectID  *int
	DueFrom    *time.Time // inclusive
	DueTo      *time.Time // inclusive
	Overdue    *bool
}

// IsZero reports whether no filter is set.
func (f *Filters) IsZero() bool {
	if f == nil {
		return true
	}
	return len(f.Statuses) == 0 && len(f.Priorities) == 0 &&
		f.ProjectID == nil && f.DueFrom == nil && f.DueTo == nil && f.Overdue == nil
}

// Request is a user-scoped search request. An empty Query selects all of the
// user's non-deleted tasks (browse mode).
type Request struct {
	Query    string
	UserID   string
	Page     int
	PageSize int
	Filters  *Filters
}

// Validate checks the request invariants. Page and PageSize must be positive;
// UserID is mandatory because every query is user-scoped.
func (r *Request) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrInvalidRequest)
	}
	if r.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d: %w", r.Page, domain.ErrInvalidRequest)
	}
	if r.PageSize < 1 {
		return fmt.Errorf("page size must be >= 1, got %d: %w", r.PageSize, domain.ErrInvalidRequest)
	}
	if r.Filters != nil {
		for _, s := range r.Filters.Statuses {
			if !s.Valid() {
				return fmt.Errorf("invalid status filter %d: %w", s, domain.ErrInvalidRequest)
			}
		}
		for _, p := range r.Filters.Priorities {
			if !p.Valid() {
				return fmt.Errorf("invalid priority filter %d: %w", p, domain.ErrInvalidRequest)
			}
		}
	}
	return nil
}

// Offset returns the zero-based result offset for the requested page.
func (r *Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}
