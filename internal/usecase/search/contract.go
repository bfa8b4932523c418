package search

import (
	"context"

	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	domsearch "github.com/taskdeck/searchd/internal/domain/search"
)

// Repository defines the index query contract.
type Repository interface {
	SearchTasks(ctx context.Context, req *domsearch.Request) (*domsearch.Page, error)
	Suggest(ctx context.Context, userID, fragment string, limit int) ([]string, error)
	StatusDistribution(ctx context.Context, userID string) (map[string]int64, error)
	PriorityDistribution(ctx context.Context, userID string) (map[string]int64, error)
	Overdue(ctx context.Context, userID string) ([]domdoc.TaskDocument, error)
}
