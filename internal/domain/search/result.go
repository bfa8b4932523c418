package search

import "github.com/taskdeck/searchd/internal/domain/document"

// Page is one page of search results with the total match count and the
// backend round-trip time.
type Page struct {
	Documents []document.TaskDocument
	Total     int64
	TookMs    int64
	Page      int
	PageSize  int
}

// EmptyPage returns a zero-result page with non-nil Documents, used when the
// backend is unavailable and search degrades to empty results.
func EmptyPage(page, pageSize int) Page {
	return Page{
		Documents: []document.TaskDocument{},
		Page:      page,
		PageSize:  pageSize,
	}
}
